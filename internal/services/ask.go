package services

import (
	"context"

	"github.com/yungbote/docqa-backend/internal/observability"
	"github.com/yungbote/docqa-backend/internal/platform/logger"
	"github.com/yungbote/docqa-backend/internal/types"
)

// ErrorMessage is the generic text returned for collaborator failures.
// Internal detail stays in the logs, never in the response body.
const ErrorMessage = "Something went wrong while answering your question. Please try again."

// AskService runs the question pipeline: guard, expand, retrieve, assemble,
// compose, resolve. Every branch ends in exactly one terminal outcome; no
// state survives the request.
type AskService struct {
	guard     *QueryGuard
	expander  *QueryExpander
	retriever *Retriever
	assembler *ContextAssembler
	composer  *AnswerComposer
	resolver  *CitationResolver
	log       *logger.Logger
}

func NewAskService(
	guard *QueryGuard,
	expander *QueryExpander,
	retriever *Retriever,
	assembler *ContextAssembler,
	composer *AnswerComposer,
	resolver *CitationResolver,
	log *logger.Logger,
) *AskService {
	return &AskService{
		guard:     guard,
		expander:  expander,
		retriever: retriever,
		assembler: assembler,
		composer:  composer,
		resolver:  resolver,
		log:       log,
	}
}

func (s *AskService) Ask(ctx context.Context, question string) types.Outcome {
	out := s.ask(ctx, question)
	observability.Current().ObserveAskOutcome(string(out.Kind))
	return out
}

func (s *AskService) ask(ctx context.Context, question string) types.Outcome {
	if vague, rule := s.guard.Assess(question); vague {
		s.log.Info("question flagged vague", "rule", rule, "question", question)
		return types.Outcome{Kind: types.OutcomeClarify, Answer: ClarifyMessage}
	}

	expanded := s.expander.Expand(question)

	evidence, err := s.retriever.Retrieve(ctx, expanded)
	if err != nil {
		s.log.Error("retrieval failed", "error", err, "expanded_query", expanded)
		return types.Outcome{Kind: types.OutcomeError, Answer: ErrorMessage}
	}
	observability.Current().ObserveRetrievalDepth(len(evidence))
	if len(evidence) == 0 {
		return types.Outcome{Kind: types.OutcomeRefuse, Answer: RefusalPhrase}
	}

	chunks := make([]types.Chunk, 0, len(evidence))
	for _, sc := range evidence {
		chunks = append(chunks, sc.Chunk)
	}
	promptBlock, blocks := s.assembler.Assemble(chunks)

	answer, err := s.composer.Compose(ctx, question, promptBlock)
	if err != nil {
		s.log.Error("answer composition failed", "error", err, "question", question)
		return types.Outcome{Kind: types.OutcomeError, Answer: ErrorMessage}
	}

	sources := s.resolver.Resolve(answer, blocks)
	return types.Outcome{Kind: types.OutcomeAnswered, Answer: answer, Sources: sources}
}
