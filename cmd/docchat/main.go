package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/xxxsen/common/logger"
	"github.com/xxxsen/common/logutil"
	"github.com/xxxsen/common/webapi"
	"go.uber.org/zap"

	"github.com/nhollis/docchat/internal/ai"
	"github.com/nhollis/docchat/internal/config"
	"github.com/nhollis/docchat/internal/corpus"
	"github.com/nhollis/docchat/internal/embedcache"
	"github.com/nhollis/docchat/internal/handler"
	"github.com/nhollis/docchat/internal/ingest"
	"github.com/nhollis/docchat/internal/job"
	"github.com/nhollis/docchat/internal/middleware"
	"github.com/nhollis/docchat/internal/retrieval"
	"github.com/nhollis/docchat/internal/schedule"
	"github.com/nhollis/docchat/internal/service"
	"github.com/nhollis/docchat/internal/session"
	"github.com/nhollis/docchat/internal/tokenizer"
)

func main() {
	_ = godotenv.Load()

	var configPath string
	var inputDir string

	rootCmd := &cobra.Command{
		Use:   "docchat",
		Short: "docchat retrieval-augmented chat server",
	}

	loadConfig := func() (*config.Config, error) {
		if configPath == "" {
			return nil, fmt.Errorf("--config is required")
		}
		cfg, err := config.Load(configPath)
		if err != nil {
			return nil, err
		}
		logger.Init(
			cfg.LogConfig.File,
			cfg.LogConfig.Level,
			int(cfg.LogConfig.FileCount),
			int(cfg.LogConfig.FileSize),
			int(cfg.LogConfig.KeepDays),
			cfg.LogConfig.Console,
		)
		logutil.GetLogger(context.Background()).Info("config loaded", zap.String("config", configPath))
		return cfg, nil
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run the chat server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return runServer(cfg)
		},
	}
	runCmd.Flags().StringVar(&configPath, "config", "", "path to config.json")

	ingestCmd := &cobra.Command{
		Use:   "ingest",
		Short: "split source documents into corpus sections",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if inputDir == "" {
				return fmt.Errorf("--input is required")
			}
			return runIngest(cfg, inputDir)
		},
	}
	ingestCmd.Flags().StringVar(&configPath, "config", "", "path to config.json")
	ingestCmd.Flags().StringVarP(&inputDir, "input", "i", "", "directory of markdown/plaintext documents")

	embedCmd := &cobra.Command{
		Use:   "embed",
		Short: "compute embeddings for every corpus section",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return runEmbed(cfg)
		},
	}
	embedCmd.Flags().StringVar(&configPath, "config", "", "path to config.json")

	rootCmd.AddCommand(runCmd, ingestCmd, embedCmd)

	if err := rootCmd.Execute(); err != nil {
		logutil.GetLogger(context.Background()).Fatal("startup error", zap.Error(err))
	}
}

func runServer(cfg *config.Config) error {
	logutil.GetLogger(context.Background()).Info(
		"starting server",
		zap.Int("port", cfg.Port),
		zap.String("corpus_source", cfg.Corpus.Source),
		zap.String("ai_provider", cfg.AI.Provider),
	)

	tok, err := tokenizer.New(cfg.Retrieval.Encoding)
	if err != nil {
		return fmt.Errorf("init tokenizer: %w", err)
	}
	chatProvider, err := ai.NewChatProvider(cfg.AI.Provider, cfg.AI.Data)
	if err != nil {
		return fmt.Errorf("init ai provider: %w", err)
	}
	embedProvider, err := ai.NewEmbedProvider(cfg.AI.EmbedProvider, cfg.AI.EmbedData)
	if err != nil {
		return fmt.Errorf("init ai embed provider: %w", err)
	}
	embedder := embedcache.WrapLruCacheToEmbedder(
		ai.NewEmbedder(embedProvider, cfg.AI.EmbeddingModel),
		cfg.AI.EmbedCacheSize,
		time.Duration(cfg.AI.EmbedCacheTTL)*time.Minute,
	)

	source, err := corpus.NewSource(cfg.Corpus)
	if err != nil {
		return fmt.Errorf("init corpus source: %w", err)
	}
	corpusSvc := corpus.NewService(source)

	sessionTTL := time.Duration(cfg.SessionTTLMinutes) * time.Minute
	sessions := session.NewStore(sessionTTL)

	assembler := retrieval.NewAssembler(
		cfg.Retrieval.Separator,
		tok.Count(cfg.Retrieval.Separator),
		cfg.Retrieval.TokenBudget,
	)
	chatService := service.NewChatService(
		corpusSvc,
		embedder,
		ai.NewChatModel(chatProvider, cfg.AI.ChatModel),
		ai.NewChatModel(chatProvider, cfg.AI.SuggestionModel),
		assembler,
		service.ChatConfig{
			MaxTokens:      cfg.AI.MaxTokens,
			Temperature:    cfg.AI.Temperature,
			Timeout:        time.Duration(cfg.AI.Timeout) * time.Second,
			MaxSources:     cfg.Retrieval.MaxSources,
			HistoryWindow:  cfg.History.Window,
			QuestionWindow: cfg.History.QuestionWindow,
		},
	)
	authService := service.NewAuthService(cfg.AccessPasswordHash, sessions, []byte(cfg.JWTSecret), sessionTTL)

	if err := chatService.Warmup(context.Background()); err != nil {
		return fmt.Errorf("load corpus: %w", err)
	}

	deps := handler.RouterDeps{
		Auth:      handler.NewAuthHandler(authService),
		Chat:      handler.NewChatHandler(chatService, sessions),
		JWTSecret: []byte(cfg.JWTSecret),
	}

	engine, err := webapi.NewEngine(
		"/api/v1",
		fmt.Sprintf("0.0.0.0:%d", cfg.Port),
		webapi.WithRegister(func(group *gin.RouterGroup) {
			handler.RegisterRoutes(group, deps)
		}),
		webapi.WithExtraMiddlewares(
			middleware.RequestID(),
			middleware.CORS(nil),
			gzip.Gzip(gzip.DefaultCompression),
		),
	)
	if err != nil {
		return fmt.Errorf("init web engine: %w", err)
	}
	logutil.GetLogger(context.Background()).Info("http server listening", zap.String("addr", fmt.Sprintf("0.0.0.0:%d", cfg.Port)))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	scheduler := schedule.NewCronScheduler()
	if err := scheduler.AddJob(job.NewSessionSweepJob(sessions), "* * * * *"); err != nil {
		return err
	}
	scheduler.Start(ctx)
	defer scheduler.Stop()

	go func() {
		if err := engine.Run(); err != nil && err != http.ErrServerClosed {
			logutil.GetLogger(context.Background()).Error("server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logutil.GetLogger(context.Background()).Info("server stopping...")
	return nil
}

func runIngest(cfg *config.Config, inputDir string) error {
	ctx := context.Background()
	tok, err := tokenizer.New(cfg.Retrieval.Encoding)
	if err != nil {
		return fmt.Errorf("init tokenizer: %w", err)
	}
	docs, err := ingest.LoadDocuments(inputDir)
	if err != nil {
		return fmt.Errorf("load documents: %w", err)
	}
	sections := ingest.NewSplitter(tok).Split(docs)
	sink, err := corpus.NewSink(cfg.Corpus)
	if err != nil {
		return fmt.Errorf("init corpus sink: %w", err)
	}
	if err := sink.SaveSections(ctx, sections); err != nil {
		return fmt.Errorf("save sections: %w", err)
	}
	logutil.GetLogger(ctx).Info("ingest finished",
		zap.Int("documents", len(docs)),
		zap.Int("sections", len(sections)),
	)
	return nil
}

func runEmbed(cfg *config.Config) error {
	ctx := context.Background()
	source, err := corpus.NewSource(cfg.Corpus)
	if err != nil {
		return fmt.Errorf("init corpus source: %w", err)
	}
	sections, err := source.LoadSections(ctx)
	if err != nil {
		return fmt.Errorf("load sections: %w", err)
	}
	embedProvider, err := ai.NewEmbedProvider(cfg.AI.EmbedProvider, cfg.AI.EmbedData)
	if err != nil {
		return fmt.Errorf("init ai embed provider: %w", err)
	}
	embedder := ai.NewEmbedder(embedProvider, cfg.AI.EmbeddingModel)

	start := time.Now()
	embeddings, err := ingest.NewBatchEmbedder(embedder).EmbedSections(ctx, sections)
	if err != nil {
		return fmt.Errorf("embed sections: %w", err)
	}
	sink, err := corpus.NewSink(cfg.Corpus)
	if err != nil {
		return fmt.Errorf("init corpus sink: %w", err)
	}
	if err := sink.SaveEmbeddings(ctx, embeddings); err != nil {
		return fmt.Errorf("save embeddings: %w", err)
	}
	logutil.GetLogger(ctx).Info("embedding finished",
		zap.Int("sections", len(embeddings)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return nil
}
