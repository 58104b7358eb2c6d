package mentor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	pkgerrors "github.com/pkg/errors"

	"github.com/trezcool/mentor/core"
)

// DefaultTopK is the number of documents retrieved per question.
const DefaultTopK = 4

var errEmptyQuery = errors.New("query cannot be blank")

type (
	// Generator produces an answer from a system prompt and the user's question.
	Generator interface {
		Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error)
	}

	// Document is a retrieved chunk of the college documents.
	Document struct {
		Content string  `json:"content"`
		Source  string  `json:"source"`
		Score   float64 `json:"score"`
	}

	// Retriever returns the k documents most relevant to the query.
	Retriever interface {
		Retrieve(ctx context.Context, query string, k int) ([]Document, error)
	}

	Options struct {
		TopK int
	}

	Answer struct {
		Text      string    `json:"answer"`
		QueryType QueryType `json:"query_type"`
		Sources   []string  `json:"sources"`
	}

	Service struct {
		assembler *Assembler
		retriever Retriever
		generator Generator
		logger    core.Logger
		topK      int
	}
)

// NewService wires the mentor. The Generator carries the backend choice made at startup.
func NewService(records Records, retriever Retriever, generator Generator, logger core.Logger, opts Options) *Service {
	topK := opts.TopK
	if topK <= 0 {
		topK = DefaultTopK
	}
	return &Service{
		assembler: NewAssembler(records),
		retriever: retriever,
		generator: generator,
		logger:    logger,
		topK:      topK,
	}
}

// Assembler exposes the context assembler the service builds prompts with.
func (svc *Service) Assembler() *Assembler {
	return svc.assembler
}

// Answer answers a student's question using their records and the retrieved college documents.
func (svc *Service) Answer(ctx context.Context, studentID, query string) (Answer, error) {
	query = core.CleanString(query)
	if query == "" {
		return Answer{}, core.NewValidationError(errEmptyQuery, core.FieldError{Field: "query", Error: errEmptyQuery.Error()})
	}

	qt := DetectQueryType(query)
	studentCtx, err := svc.assembler.Context(ctx, studentID, qt.ContextKind())
	if err != nil {
		return Answer{}, err
	}

	docs, err := svc.retriever.Retrieve(ctx, query, svc.topK)
	if err != nil {
		return Answer{}, pkgerrors.Wrap(err, "retrieving documents")
	}

	prompt, err := BuildSystemPrompt(studentCtx, docs, query, qt)
	if err != nil {
		return Answer{}, pkgerrors.Wrap(err, "building prompt")
	}

	start := time.Now()
	text, err := svc.generator.Generate(ctx, prompt, query)
	if err != nil {
		return Answer{}, pkgerrors.Wrap(err, "generating answer")
	}
	svc.logger.Debug(fmt.Sprintf("mentor answered student %s (%s) in %v", studentID, qt, time.Since(start)))

	return Answer{
		Text:      strings.TrimSpace(text),
		QueryType: qt,
		Sources:   sources(docs),
	}, nil
}

func sources(docs []Document) []string {
	seen := make(map[string]bool, len(docs))
	srcs := make([]string, 0, len(docs))
	for _, doc := range docs {
		if doc.Source == "" || seen[doc.Source] {
			continue
		}
		seen[doc.Source] = true
		srcs = append(srcs, doc.Source)
	}
	return srcs
}
