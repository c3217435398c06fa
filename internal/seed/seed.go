package seed

import (
	"context"
	"fmt"
	"log/slog"

	"farmsphere/internal/database"
	"farmsphere/internal/middleware"
	"farmsphere/internal/models"
	"farmsphere/internal/repository"
	"farmsphere/internal/service"

	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers        int
	NumPosts        int
	CommentsPerPost int
	LikesPerPost    int
	NumChats        int
	MessagesPerChat int
	Seed            int64
	ShouldClean     bool
}

// DefaultOptions is what the seed command uses without flags.
func DefaultOptions() Options {
	return Options{
		NumUsers:        20,
		NumPosts:        60,
		CommentsPerPost: 3,
		LikesPerPost:    5,
		NumChats:        3,
		MessagesPerChat: 15,
		ShouldClean:     true,
	}
}

// Services bundles the services the factory writes through.
type Services struct {
	Users      *service.UserService
	Posts      *service.PostService
	Comments   *service.CommentService
	Activities *service.ActivityService
	Chats      *service.ChatService
	CropHealth *service.CropHealthService
}

// NewServices wires store-only services over db. Nothing is cached and chat
// messages are not published.
func NewServices(db *gorm.DB) Services {
	return Services{
		Users:      service.NewUserService(repository.NewUserRepository(db, nil), nil),
		Posts:      service.NewPostService(repository.NewPostRepository(db, nil), nil),
		Comments:   service.NewCommentService(repository.NewCommentRepository(db, nil), nil),
		Activities: service.NewActivityService(repository.NewActivityRepository(db), nil),
		Chats:      service.NewChatService(repository.NewChatRepository(db), nil, nil),
		CropHealth: service.NewCropHealthService(repository.NewCropHealthRepository(db), nil),
	}
}

// Summary counts what a run created.
type Summary struct {
	Users, Posts, Comments, Likes, Saves, Activities, Diagnoses, Messages int
}

// Seeder creates demo data.
type Seeder struct {
	db      *gorm.DB
	factory *Factory
	svc     Services
}

// NewSeeder creates a Seeder over db.
func NewSeeder(db *gorm.DB, seed int64) *Seeder {
	svc := NewServices(db)
	return &Seeder{db: db, factory: NewFactory(svc, seed), svc: svc}
}

// ClearAll deletes every row of every collection.
func (s *Seeder) ClearAll(ctx context.Context) error {
	for _, m := range database.PersistentModels() {
		if err := s.db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(m).Error; err != nil {
			return fmt.Errorf("clear %T: %w", m, err)
		}
	}
	middleware.Logger.Info("Cleared all collections")
	return nil
}

// Run seeds according to opts.
func (s *Seeder) Run(ctx context.Context, opts Options) (Summary, error) {
	var sum Summary
	if opts.NumUsers <= 0 {
		return sum, fmt.Errorf("at least one user is required")
	}

	if opts.ShouldClean {
		if err := s.ClearAll(ctx); err != nil {
			return sum, err
		}
	}

	f := s.factory
	users := make([]*models.User, 0, opts.NumUsers)
	for i := 0; i < opts.NumUsers; i++ {
		u, err := f.CreateUser(ctx)
		if err != nil {
			return sum, fmt.Errorf("create user: %w", err)
		}
		users = append(users, u)

		if _, err := f.CreateActivity(ctx, u); err != nil {
			return sum, fmt.Errorf("create activity: %w", err)
		}
		if _, err := f.CreateDiagnosis(ctx, u); err != nil {
			return sum, fmt.Errorf("create diagnosis: %w", err)
		}
		sum.Activities++
		sum.Diagnoses++
	}
	sum.Users = len(users)

	for i := 0; i < opts.NumPosts; i++ {
		author := users[f.faker.Number(0, len(users)-1)]
		post, err := f.CreatePost(ctx, author)
		if err != nil {
			return sum, fmt.Errorf("create post: %w", err)
		}
		sum.Posts++

		for c := 0; c < opts.CommentsPerPost; c++ {
			if _, err := f.CreateComment(ctx, post, users[f.faker.Number(0, len(users)-1)]); err != nil {
				return sum, fmt.Errorf("create comment: %w", err)
			}
			sum.Comments++
		}

		// Distinct likers so every toggle adds a like.
		likers := opts.LikesPerPost
		if likers > len(users) {
			likers = len(users)
		}
		start := f.faker.Number(0, len(users)-1)
		for l := 0; l < likers; l++ {
			liker := users[(start+l)%len(users)]
			if _, _, err := s.svc.Posts.ToggleLike(ctx, post.ID, liker.UserID); err != nil {
				return sum, fmt.Errorf("toggle like: %w", err)
			}
			sum.Likes++
		}

		if f.faker.Bool() {
			if _, err := s.svc.Posts.ToggleSave(ctx, post.ID, users[start].UserID); err != nil {
				return sum, fmt.Errorf("toggle save: %w", err)
			}
			sum.Saves++
		}
	}

	for c := 0; c < opts.NumChats; c++ {
		chatID := fmt.Sprintf("%s-coop", f.pick(crops))
		for m := 0; m < opts.MessagesPerChat; m++ {
			if _, err := f.SendMessage(ctx, chatID, users[f.faker.Number(0, len(users)-1)]); err != nil {
				return sum, fmt.Errorf("send message: %w", err)
			}
			sum.Messages++
		}
	}

	middleware.Logger.Info("Seeding complete",
		slog.Int("users", sum.Users),
		slog.Int("posts", sum.Posts),
		slog.Int("comments", sum.Comments),
		slog.Int("likes", sum.Likes),
		slog.Int("messages", sum.Messages),
	)
	return sum, nil
}
