package student

// Insight is the attendance projection of one course.
type Insight struct {
	Percentage    float64 `json:"percentage"`
	ClassesNeeded int     `json:"classes_needed"`
}

// ComputeAttendanceInsight returns the current attendance percentage and the smallest number of
// additional classes, all attended, after which attendance reaches the threshold.
//
// A record with no classes yields (0, 0). A threshold of 100% or more yields 0 classes needed:
// it can't be reached by attending more classes. The percentage is not clamped.
//
// The projection solves (attended + x) / (total + x) >= threshold/100 for the smallest integer x >= 0,
// i.e. x = ceil((threshold*total - 100*attended) / (100 - threshold)), in integer arithmetic so that
// thresholds like 70% don't over-project through float rounding.
func ComputeAttendanceInsight(att Attendance) Insight {
	total := att.TotalClasses
	if total <= 0 {
		return Insight{}
	}

	ins := Insight{Percentage: (float64(att.Attended) / float64(total)) * 100}
	if att.Threshold >= 100 {
		return ins
	}

	num := att.Threshold*total - 100*att.Attended
	den := 100 - att.Threshold
	if num > 0 {
		ins.ClassesNeeded = (num + den - 1) / den
	}
	return ins
}
