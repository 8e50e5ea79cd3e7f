package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-firestore-qna/internal/catalog"
	"go-firestore-qna/internal/config"
	"go-firestore-qna/internal/database"
	"go-firestore-qna/internal/localstore"
	"go-firestore-qna/internal/model"
	"go-firestore-qna/internal/recommend"
	answerRepository "go-firestore-qna/internal/repository/answer"
	"go-firestore-qna/internal/repository/filter"
	"go-firestore-qna/internal/repository/ops"
	questionRepository "go-firestore-qna/internal/repository/question"
	userRepository "go-firestore-qna/internal/repository/user"

	"cloud.google.com/go/firestore"
	Firestore "firebase.google.com/go/v4"

	"github.com/spf13/cobra"
	"google.golang.org/api/option"
)

type deps struct {
	questions questionRepository.QuestionRepository
	answers   answerRepository.AnswerRepository
	users     userRepository.UserRepository
	cnf       config.Config
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "client",
		Short:         "Seed and inspect the question catalog",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	seed := &cobra.Command{
		Use:   "seed",
		Short: "Write catalog data from JSON files to Firestore",
	}
	seed.AddCommand(seedQuestionsCmd(), seedEssentialCmd())

	root.AddCommand(seed, recommendCmd(), unansweredCmd(), watchCmd())
	return root
}

func withDeps(fn func(ctx context.Context, d deps, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		cnf := config.LoadConfigOrPanic()

		app := createFirestoreAppOrPanic(ctx, cnf.Firebase)
		firestoreClient := createFirestoreClientOrPanic(ctx, app, cnf.WriteTimeoutSecond)
		defer firestoreClient.Close()

		return fn(ctx, deps{
			questions: questionRepository.New(&firestoreClient),
			answers:   answerRepository.New(&firestoreClient),
			users:     userRepository.New(&firestoreClient),
			cnf:       cnf,
		}, args)
	}
}

func seedQuestionsCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "questions",
		Short: "Write every question of a JSON array to the questions collection",
		RunE: withDeps(func(ctx context.Context, d deps, _ []string) error {
			var questions []model.Question
			if err := readJson(file, &questions); err != nil {
				return err
			}
			if err := d.questions.SetQuestions(ctx, questions); err != nil {
				return err
			}
			fmt.Printf("%d questions saved to Firestore.\n", len(questions))
			return nil
		}),
	}
	cmd.Flags().StringVar(&file, "file", "", "path of a JSON array of questions")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func seedEssentialCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "essential",
		Short: "Replace the essential question order",
		RunE: withDeps(func(ctx context.Context, d deps, _ []string) error {
			var essential model.EssentialQuestions
			if err := readJson(file, &essential); err != nil {
				return err
			}
			if err := d.questions.SetEssentialQuestions(ctx, essential); err != nil {
				return err
			}
			fmt.Printf("Essential order saved: %d fixed, %d random.\n", len(essential.FixedOrder), len(essential.RandomOrder))
			return nil
		}),
	}
	cmd.Flags().StringVar(&file, "file", "", "path of a JSON object with fixedOrder and randomOrder")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func recommendCmd() *cobra.Command {
	var userId string
	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Show the daily question of a user",
		RunE: withDeps(func(ctx context.Context, d deps, _ []string) error {
			store, err := localstore.Open(d.cnf.Store.Path)
			if err != nil {
				return err
			}
			defer store.Close()

			user, err := d.users.GetById(ctx, userId)
			if err != nil {
				return err
			}

			selector := recommend.New(catalog.New(d.questions, d.answers), store, d.cnf.Recommend.DayOffset())
			question, err := selector.SelectDaily(ctx, user, time.Now())
			if err != nil {
				return err
			}
			return printJson(question)
		}),
	}
	cmd.Flags().StringVar(&userId, "user", "", "user id")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func unansweredCmd() *cobra.Command {
	var userId string
	cmd := &cobra.Command{
		Use:   "unanswered",
		Short: "List the questions neither the user nor the partner answered",
		RunE: withDeps(func(ctx context.Context, d deps, _ []string) error {
			user, err := d.users.GetById(ctx, userId)
			if err != nil {
				return err
			}

			questions, err := catalog.New(d.questions, d.answers).ListUnanswered(ctx, user.Id, user.FianceId)
			if err != nil {
				return err
			}
			return printJson(questions)
		}),
	}
	cmd.Flags().StringVar(&userId, "user", "", "user id")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func watchCmd() *cobra.Command {
	var category string
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Print catalog changes until interrupted",
		RunE: withDeps(func(ctx context.Context, d deps, _ []string) error {
			var where []filter.Where
			if category != "" {
				where = append(where, filter.Where{Path: questionRepository.CategoryFieldPath, Op: ops.Equal, Value: category})
			}

			for e := range d.questions.NotifyOnChangesWhere(ctx, where) {
				if e.Err != nil {
					fmt.Println(e.Err)
					continue
				}
				fmt.Printf("%s question: %d\n", kindName(e.Kind), e.Question.Id)
			}
			return nil
		}),
	}
	cmd.Flags().StringVar(&category, "category", "", "only watch questions of this category")
	return cmd
}

func kindName(kind firestore.DocumentChangeKind) string {
	switch kind {
	case firestore.DocumentAdded:
		return "added"
	case firestore.DocumentModified:
		return "modified"
	default:
		return "removed"
	}
}

func readJson(filePath string, v any) error {
	jsonFile, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("open %s: %w", filePath, err)
	}
	defer jsonFile.Close()

	byteValue, err := io.ReadAll(jsonFile)
	if err != nil {
		return fmt.Errorf("read %s: %w", filePath, err)
	}

	if err := json.Unmarshal(byteValue, v); err != nil {
		return fmt.Errorf("decode %s: %w", filePath, err)
	}
	return nil
}

func printJson(v any) error {
	jsonData, err := json.MarshalIndent(v, "", "    ")
	if err != nil {
		return err
	}
	fmt.Println(string(jsonData))
	return nil
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
