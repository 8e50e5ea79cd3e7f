package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-firestore-qna/internal/api"
	"go-firestore-qna/internal/catalog"
	"go-firestore-qna/internal/config"
	"go-firestore-qna/internal/database"
	catalogSyncHandler "go-firestore-qna/internal/handler/catalogsync"
	checkAnswerHandler "go-firestore-qna/internal/handler/checkanswer"
	homeHandler "go-firestore-qna/internal/handler/home"
	"go-firestore-qna/internal/localstore"
	"go-firestore-qna/internal/recommend"
	answerRepository "go-firestore-qna/internal/repository/answer"
	questionRepository "go-firestore-qna/internal/repository/question"
	userRepository "go-firestore-qna/internal/repository/user"

	Firestore "firebase.google.com/go/v4"

	questionEventPublisher "go-firestore-qna/internal/eventpublisher/question"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"google.golang.org/api/option"
)

func main() {

	cnf := config.LoadConfigOrPanic()
	setupLogger(cnf.Log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	defer signal.Stop(sigs)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	app := createFirestoreAppOrPanic(ctx, cnf.Firebase)
	firestoreClient := createFirestoreClientOrPanic(ctx, app, cnf.WriteTimeoutSecond)
	defer firestoreClient.Close()

	store, err := localstore.Open(cnf.Store.Path)
	if err != nil {
		panic(err)
	}
	defer store.Close()

	questionRepo := questionRepository.New(&firestoreClient)
	answerRepo := answerRepository.New(&firestoreClient)
	userRepo := userRepository.New(&firestoreClient)

	questionCatalog := catalog.New(questionRepo, answerRepo)
	selector := recommend.New(questionCatalog, store, cnf.Recommend.DayOffset())

	home := homeHandler.New(userRepo, answerRepo, selector)
	checkAnswer := checkAnswerHandler.New(userRepo, answerRepo, questionCatalog)

	catalogPublisher := questionEventPublisher.QuestionPublisherFactory(questionRepo).OnCatalogChange()
	catalogSync := catalogSyncHandler.New(catalogPublisher, questionCatalog)

	deps := api.Deps{
		Home:      home,
		Answers:   checkAnswer,
		Questions: questionCatalog,
		Users:     userRepo,
		Images:    store,
	}
	if cnf.AuthEnabled {
		authClient, err := app.Auth(ctx)
		if err != nil {
			panic(err)
		}
		deps.Verifier = authClient
	}

	server := &http.Server{
		Addr:              cnf.Server.Addr,
		Handler:           api.NewRouter(deps),
		ReadHeaderTimeout: time.Second * 10,
	}

	group, gctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return catalogSync.EventHandler(gctx)
	})
	group.Go(func() error {
		return catalogPublisher.Start(gctx)
	})
	group.Go(func() error {
		log.Info().Msgf("listening on %s", cnf.Server.Addr)
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cnf.ShutdownTimeout)
		defer cancelShutdown()
		return server.Shutdown(shutdownCtx)
	})

	select {
	case <-sigs:
		// Received a termination signal, continue to shutdown
	case <-gctx.Done():
		// errgroup encountered an error, continue to shutdown
	}

	cancel() // cancel the root context to signal all the consumers

	done := make(chan error, 1)
	go func() {
		done <- group.Wait()
	}()

	select {
	case err := <-done:
		if err != nil && !errors.Is(err, context.Canceled) {
			log.Error().Err(err).Msg("shutdown")
			os.Exit(1)
		}
	case <-time.After(cnf.ShutdownTimeout + time.Second):
		// Give enough time to close all the pending resources
		os.Exit(1)
	case <-sigs:
		// Forcefully terminate the app with a signal
		os.Exit(1)
	}
}

func setupLogger(cnf config.Log) {
	level, err := zerolog.ParseLevel(cnf.Level)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cnf.Pretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
	if level > zerolog.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}
}

func createFirestoreAppOrPanic(ctx context.Context, cnf config.Firebase) *Firestore.App {
	FirestoreCreds, err := json.Marshal(cnf)
	if err != nil {
		panic(err)
	}

	sa := option.WithCredentialsJSON(FirestoreCreds)
	app, err := Firestore.NewApp(ctx, &Firestore.Config{ProjectID: cnf.ProjectId}, sa)
	if err != nil {
		panic(err)
	}
	return app
}

func createFirestoreClientOrPanic(ctx context.Context, app *Firestore.App, writeTimeout time.Duration) database.FirestoreClient {
	firestoreClient, err := app.Firestore(ctx)
	if err != nil {
		panic(err)
	}
	return database.New(firestoreClient, writeTimeout)
}
