package app

import (
	"context"
	"log"
	"os"
	"time"

	"skill-compass/internal/config"
	"skill-compass/internal/database"
	dbpostgres "skill-compass/internal/database/postgres"
	"skill-compass/internal/delivery/http/handler"
	"skill-compass/internal/delivery/http/middleware"
	"skill-compass/internal/delivery/http/routes"
	"skill-compass/internal/domain/recommend"
	"skill-compass/internal/infrastructure/cache"
	"skill-compass/internal/ingest"
	"skill-compass/internal/pkg/jwt"
	"skill-compass/internal/repository"
	"skill-compass/internal/usecase"
	"skill-compass/internal/ws"
)

const appVersion = "1.0.0"

// Container holds the collaborator graph, built once at startup. The cmd
// binaries pull out the pieces they run; everything below the exported
// fields is wired internally.
type Container struct {
	Config config.Config
	Logger *log.Logger

	DB    database.DB
	Cache *cache.Redis
	Hub   *ws.Hub

	Registry *routes.Registry

	IngestRunner  *ingest.Runner
	IngestSources []ingest.Source
}

func NewContainer(cfg config.Config) (*Container, error) {
	logger := log.New(os.Stdout, "", log.LstdFlags)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := dbpostgres.Connect(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}

	redisCache := cache.NewRedis(logger)
	hub := ws.NewHub(logger)

	users := repository.NewPostgresUserRepository(db)
	skills := repository.NewPostgresSkillRepository(db)
	userSkills := repository.NewPostgresUserSkillRepository(db)
	jobs := repository.NewPostgresJobRepository(db)
	jobSkills := repository.NewPostgresJobSkillRepository(db)
	audits := repository.NewPostgresAuditRepository(db)
	corpusStatus := repository.NewPostgresCorpusStatusRepository(db)

	jwtSvc := jwt.NewHMACService(cfg.JWT.AccessSecret, cfg.JWT.RefreshSecret, cfg.JWT.AccessTTL, cfg.JWT.RefreshTTL)

	weights := recommend.Weights{Cosine: cfg.Engine.WeightCosine, LLR: cfg.Engine.WeightLLR}
	if weights.Validate() != nil {
		logger.Printf("[App] Invalid engine weights in config, using defaults | cosine=%v llr=%v", weights.Cosine, weights.LLR)
		weights = recommend.DefaultWeights()
	}

	authUC := usecase.NewAuthUsecase(users, skills, userSkills, jwtSvc)
	userUC := usecase.NewUserUsecase(users, userSkills)
	userSkillUC := usecase.NewUserSkillUsecase(userSkills)
	skillUC := usecase.NewSkillUsecase(skills)
	jobUC := usecase.NewJobUsecase(jobs, jobSkills, skills, redisCache, hub)

	recUC := usecase.NewRecommendationUsecase(userSkills, jobs, skills, audits, redisCache, usecase.RecommendationOptions{
		Weights:      weights,
		Workers:      cfg.Engine.Workers,
		GapTopJobs:   cfg.Engine.GapTopJobs,
		GapMaxSkills: cfg.Engine.GapMaxSkills,
	}, logger)

	suggestUC := usecase.NewSuggestionUsecase(users, userSkills, skills, audits, redisCache, usecase.SuggestionOptions{
		TopUsers:  cfg.Engine.SuggestTopN,
		MaxSkills: cfg.Engine.SuggestMaxOut,
		TTL:       cfg.Engine.SuggestTTL,
	}, logger)

	auditUC := usecase.NewAuditUsecase(audits)
	statusUC := usecase.NewCorpusStatusUsecase(corpusStatus, redisCache, logger)

	store := ingest.NewStore(db)
	runner := ingest.NewRunner(store, skills, redisCache, hub, cfg.Ingest.Workers, logger)
	sources := buildIngestSources(cfg.Ingest)
	ingestUC := usecase.NewCorpusIngestUsecase(runner, sources, redisCache, logger)

	handlers := routes.Handlers{
		Health:          handler.NewHealthHandler(cfg.App.AppName, appVersion),
		Auth:            handler.NewAuthHandler(authUC, userSkillUC),
		User:            handler.NewUserHandler(userUC),
		UserSkill:       handler.NewUserSkillHandler(userSkillUC),
		Skill:           handler.NewSkillHandler(skillUC),
		Jobs:            handler.NewJobsHandler(jobUC),
		Recommendations: handler.NewRecommendationHandler(recUC, suggestUC, weights),
		Audit:           handler.NewAuditHandler(auditUC),
		Corpus:          handler.NewCorpusHandler(statusUC, ingestUC),
		WS:              ws.NewHandler(hub, logger),
	}

	registry := routes.NewRegistry(
		handlers,
		middleware.NewAuthMiddleware(jwtSvc),
		middleware.NewAdminMiddleware(users),
	)

	return &Container{
		Config:        cfg,
		Logger:        logger,
		DB:            db,
		Cache:         redisCache,
		Hub:           hub,
		Registry:      registry,
		IngestRunner:  runner,
		IngestSources: sources,
	}, nil
}

// buildIngestSources enables each source kind that has a base URL configured.
// The feed source ships with a working default; the board and headless
// sources stay off until pointed somewhere.
func buildIngestSources(cfg config.IngestConfig) []ingest.Source {
	sources := make([]ingest.Source, 0, 3)

	if cfg.FeedAPIBase != "" {
		sources = append(sources, ingest.NewFeedSource(ingest.FeedConfig{
			Name:    cfg.FeedName,
			APIBase: cfg.FeedAPIBase,
			Pages:   cfg.FeedPages,
			Workers: cfg.Workers,
		}))
	}

	if cfg.BoardBaseURL != "" {
		sources = append(sources, ingest.NewBoardSource(ingest.BoardConfig{
			Name:        cfg.BoardName,
			BaseURL:     cfg.BoardBaseURL,
			ListPath:    cfg.BoardListPath,
			LinkPattern: cfg.BoardLinkPattern,
			Pages:       cfg.BoardPages,
		}))
	}

	if cfg.HeadlessBaseURL != "" {
		sources = append(sources, ingest.NewHeadlessSource(ingest.HeadlessConfig{
			Name:        cfg.HeadlessName,
			BaseURL:     cfg.HeadlessBaseURL,
			ListPath:    cfg.HeadlessListPath,
			LinkPattern: cfg.HeadlessLinkPattern,
			Pages:       cfg.HeadlessPages,
			Limit:       cfg.HeadlessLimit,
		}))
	}

	return sources
}

func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	if c.Cache != nil {
		_ = c.Cache.Close()
	}
	if c.DB == nil {
		return nil
	}
	return c.DB.Close()
}
