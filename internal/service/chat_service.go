package service

import (
	"context"
	"time"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/nhollis/docchat/internal/ai"
	"github.com/nhollis/docchat/internal/corpus"
	"github.com/nhollis/docchat/internal/model"
	"github.com/nhollis/docchat/internal/prompt"
	"github.com/nhollis/docchat/internal/retrieval"
	"github.com/nhollis/docchat/internal/session"
)

var ErrAIUnavailable = ai.ErrUnavailable

// Answer is everything one turn of the pipeline produced.
type Answer struct {
	Answer            string
	AnswerWithSources string
	Context           string
	Links             []model.SourceLink
	Suggestions       []string
	Prompt            []model.PromptMessage
}

type ChatConfig struct {
	MaxTokens      int
	Temperature    float64
	Timeout        time.Duration
	MaxSources     int
	HistoryWindow  int
	QuestionWindow int
}

// ChatService runs the retrieval and prompt pipeline for one question:
// embed the rolling query, rank the corpus, pack the context budget, build
// the message list, call the completion model and decorate the reply.
type ChatService struct {
	corpus    *corpus.Service
	embedder  ai.IEmbedder
	chat      ai.IChatModel
	suggester ai.IChatModel
	assembler *retrieval.Assembler
	cfg       ChatConfig
}

func NewChatService(
	corpusSvc *corpus.Service,
	embedder ai.IEmbedder,
	chat ai.IChatModel,
	suggester ai.IChatModel,
	assembler *retrieval.Assembler,
	cfg ChatConfig,
) *ChatService {
	return &ChatService{
		corpus:    corpusSvc,
		embedder:  embedder,
		chat:      chat,
		suggester: suggester,
		assembler: assembler,
		cfg:       cfg,
	}
}

// Ask answers one question against the corpus, mutating state with the
// completed exchange and truncating it to the configured windows. Errors
// from the embedding or completion calls propagate to the caller; only the
// follow-up suggestion call degrades silently.
func (s *ChatService) Ask(ctx context.Context, state *session.State, question string) (*Answer, error) {
	if s.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()
	}
	logger := logutil.GetLogger(ctx)

	docs, store, err := s.corpus.Load(ctx)
	if err != nil {
		return nil, err
	}

	state.RecordQuestion(question)
	query := state.QueryText(s.cfg.QuestionWindow)

	start := time.Now()
	queryVector, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, err
	}
	ranked := retrieval.Rank(queryVector, store)
	assembly := s.assembler.Assemble(ranked, docs)
	logger.Info("context assembled",
		zap.Int("ranked", len(ranked)),
		zap.Int("chosen", len(assembly.SectionIDs)),
		zap.Duration("elapsed", time.Since(start)),
	)

	messages := prompt.Build(assembly.Context, state.Turns, question)

	start = time.Now()
	raw, err := s.chat.Complete(ctx, messages, ai.CompleteOptions{
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: s.cfg.Temperature,
	})
	if err != nil {
		return nil, err
	}
	logger.Info("completion finished", zap.Duration("elapsed", time.Since(start)))

	answer := prompt.TrimAnswer(raw)
	display, isReal := prompt.FormatAnswer(raw, assembly.Links, s.cfg.MaxSources)

	var suggestions []string
	if isReal {
		suggestions = s.followupQuestions(ctx, answer)
	}

	state.RecordAnswer(
		model.ConversationTurn{Role: model.RoleUser, Content: prompt.FormatQuestion(question)},
		model.ConversationTurn{Role: model.RoleAssistant, Content: answer},
		question,
		answer,
		"\n"+display+"\n",
	)
	state.Truncate(s.cfg.HistoryWindow, s.cfg.QuestionWindow)

	return &Answer{
		Answer:            answer,
		AnswerWithSources: display,
		Context:           assembly.Context,
		Links:             assembly.Links,
		Suggestions:       suggestions,
		Prompt:            messages,
	}, nil
}

// followupQuestions is best effort: any failure degrades to no suggestions.
func (s *ChatService) followupQuestions(ctx context.Context, answer string) []string {
	if s.suggester == nil {
		return nil
	}
	raw, err := s.suggester.Complete(ctx, []model.PromptMessage{
		{Role: model.RoleUser, Content: prompt.SuggestionPrompt(answer)},
	}, ai.CompleteOptions{MaxTokens: 150, Temperature: 0.7})
	if err != nil {
		logutil.GetLogger(ctx).Warn("follow-up suggestion call failed", zap.Error(err))
		return nil
	}
	return prompt.ParseSuggestions(raw)
}

// Warmup loads the corpus eagerly so the first question does not pay the
// load cost.
func (s *ChatService) Warmup(ctx context.Context) error {
	_, _, err := s.corpus.Load(ctx)
	return err
}
