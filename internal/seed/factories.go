// Package seed populates a database with demo farming data for development.
// Records go through the service layer, so counters and cascades stay
// consistent with what the API would produce.
package seed

import (
	"context"
	"fmt"
	"strings"

	"farmsphere/internal/models"
	"farmsphere/internal/service"

	"github.com/brianvoe/gofakeit/v6"
)

var (
	crops = []string{
		"maize", "beans", "cassava", "sorghum", "millet", "tomato", "potato",
		"kale", "cabbage", "coffee", "tea", "banana", "groundnut", "rice",
	}

	activityTypes = []string{
		"planting", "weeding", "irrigation", "fertilizing", "spraying", "harvest", "scouting",
	}

	diseaseLabels = []string{
		"Tomato___Late_blight", "Tomato___Early_blight", "Tomato___healthy",
		"Potato___Late_blight", "Corn___Common_rust", "Corn___healthy",
	}

	postTemplates = []string{
		"Noticed %s on my %s this morning. Anyone seen this before?",
		"Good rains this week, the %s is looking %s.",
		"Selling surplus %s at the %s market on Saturday.",
		"What spacing do you use for %s? Mine came up %s.",
	}
)

// Factory builds domain records with gofakeit and persists them through the
// services.
type Factory struct {
	faker    *gofakeit.Faker
	users    *service.UserService
	posts    *service.PostService
	comments *service.CommentService
	activity *service.ActivityService
	chats    *service.ChatService
	health   *service.CropHealthService
}

// NewFactory creates a Factory. seed makes the generated data reproducible;
// zero picks a random seed.
func NewFactory(svc Services, seed int64) *Factory {
	return &Factory{
		faker:    gofakeit.New(seed),
		users:    svc.Users,
		posts:    svc.Posts,
		comments: svc.Comments,
		activity: svc.Activities,
		chats:    svc.Chats,
		health:   svc.CropHealth,
	}
}

func (f *Factory) pick(options []string) string {
	return options[f.faker.Number(0, len(options)-1)]
}

// CreateUser creates a farmer profile.
func (f *Factory) CreateUser(ctx context.Context) (*models.User, error) {
	name := f.faker.Name()
	user, _, err := f.users.CreateOrGetUser(ctx, service.CreateUserInput{
		Name:     name,
		Email:    fmt.Sprintf("%s%d@farm.example", strings.ToLower(f.faker.Username()), f.faker.Number(100, 9999)),
		Phone:    f.faker.Phone(),
		Location: f.faker.City(),
	})
	return user, err
}

// CreatePost creates a post authored by author.
func (f *Factory) CreatePost(ctx context.Context, author *models.User) (*models.Post, error) {
	crop := f.pick(crops)
	content := fmt.Sprintf(f.pick(postTemplates), crop, f.faker.Adjective())

	in := service.CreatePostInput{
		AuthorID: author.UserID,
		Author:   author.Name,
		Content:  content,
		Location: author.Location,
		Tags:     []string{crop, f.pick(activityTypes)},
	}
	if f.faker.Bool() {
		image := fmt.Sprintf("https://picsum.photos/seed/%s/800/600", f.faker.UUID())
		in.Image = &image
	}
	return f.posts.CreatePost(ctx, in)
}

// CreateComment adds a comment by user on post.
func (f *Factory) CreateComment(ctx context.Context, post *models.Post, user *models.User) (*models.Comment, error) {
	return f.comments.CreateComment(ctx, service.CreateCommentInput{
		PostID:   post.ID,
		UserID:   user.UserID,
		UserName: user.Name,
		Content:  f.faker.Sentence(f.faker.Number(4, 14)),
	})
}

// CreateActivity logs a farm activity for user.
func (f *Factory) CreateActivity(ctx context.Context, user *models.User) (*models.Activity, error) {
	return f.activity.CreateActivity(ctx, service.CreateActivityInput{
		UserID: user.UserID,
		Type:   f.pick(activityTypes),
		Crop:   f.pick(crops),
		Notes:  f.faker.Sentence(8),
	})
}

// CreateDiagnosis stores a fake classifier result for user.
func (f *Factory) CreateDiagnosis(ctx context.Context, user *models.User) (*models.CropHealth, error) {
	top := f.faker.Float64Range(0.5, 0.95)
	results := []models.Prediction{
		{Label: f.pick(diseaseLabels), Confidence: top},
		{Label: f.pick(diseaseLabels), Confidence: (1 - top) * 0.6},
	}
	location := user.Location
	return f.health.CreateDiagnosis(ctx, service.CreateDiagnosisInput{
		UserID:   user.UserID,
		Results:  results,
		Location: &location,
	})
}

// SendMessage posts a chat line from user into chatID.
func (f *Factory) SendMessage(ctx context.Context, chatID string, user *models.User) (*models.ChatMessage, error) {
	return f.chats.SendMessage(ctx, service.SendMessageInput{
		ChatID:   chatID,
		UserID:   user.UserID,
		UserName: user.Name,
		Content:  f.faker.Sentence(f.faker.Number(3, 12)),
	})
}
