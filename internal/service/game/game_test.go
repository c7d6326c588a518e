package game

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SocialShift/Knowledge-Backend/internal/app_errors"
	"github.com/SocialShift/Knowledge-Backend/internal/models"
	"github.com/SocialShift/Knowledge-Backend/internal/service/media"
	"github.com/SocialShift/Knowledge-Backend/pkg/logger"
)

type fakeRepo struct {
	GameRepo
	questions map[uuid.UUID]*models.GameQuestion
	attempts  []models.GameAttempt
	points    int
	offset    int
	limit     int
}

func (f *fakeRepo) CreateGameQuestion(_ context.Context, q models.GameQuestion) (*models.GameQuestion, error) {
	q.ID = uuid.New()
	for i := range q.Options {
		q.Options[i].ID = uuid.New()
		q.Options[i].QuestionID = q.ID
	}
	f.questions[q.ID] = &q
	return &q, nil
}

func (f *fakeRepo) CreateGameQuestions(ctx context.Context, qs []models.GameQuestion) ([]models.GameQuestion, error) {
	out := make([]models.GameQuestion, 0, len(qs))
	for _, q := range qs {
		created, _ := f.CreateGameQuestion(ctx, q)
		out = append(out, *created)
	}
	return out, nil
}

func (f *fakeRepo) GameQuestion(_ context.Context, id uuid.UUID) (*models.GameQuestion, error) {
	q, ok := f.questions[id]
	if !ok {
		return nil, app_errors.ErrGameQuestionNotFound
	}
	out := *q
	return &out, nil
}

func (f *fakeRepo) GameQuestions(_ context.Context, _ *int, offset, limit int) ([]models.GameQuestion, int, error) {
	f.offset, f.limit = offset, limit
	return []models.GameQuestion{}, 25, nil
}

func (f *fakeRepo) RecordAttempt(_ context.Context, a models.GameAttempt, points int) (*models.GameAttempt, error) {
	a.ID = uuid.New()
	f.attempts = append(f.attempts, a)
	f.points += points
	return &a, nil
}

type fakeBadges struct{}

func (fakeBadges) EvaluateQuietly(context.Context, uuid.UUID) *models.BadgeEvaluation {
	return &models.BadgeEvaluation{}
}

type attempts struct{ correct, wrong int }

func (a *attempts) GameAttempted(correct bool) {
	if correct {
		a.correct++
		return
	}
	a.wrong++
}

type memStorage struct{}

func (memStorage) Upload(_ context.Context, prefix string, f models.Upload) (string, error) {
	return prefix + "/" + f.Filename, nil
}

func (memStorage) URL(_ context.Context, key string) (string, error) { return "https://cdn/" + key, nil }

func (memStorage) Delete(context.Context, string) error { return nil }

func newService() (*GameService, *fakeRepo, *attempts) {
	repo := &fakeRepo{questions: map[uuid.UUID]*models.GameQuestion{}}
	rec := &attempts{}
	return NewGameService(logger.Discard(), repo, fakeBadges{}, rec, media.NewStore(logger.Discard(), memStorage{})), repo, rec
}

func options() []models.GameOption {
	return []models.GameOption{{Text: "1066", IsCorrect: true}, {Text: "1215"}}
}

func ptr[T any](v T) *T { return &v }

func TestValidateOptions(t *testing.T) {
	assert.NoError(t, ValidateOptions(options()))
	assert.ErrorIs(t, ValidateOptions(options()[:1]), app_errors.ErrInvalidQuiz)
	assert.ErrorIs(t, ValidateOptions([]models.GameOption{{Text: "a"}, {Text: "b"}}), app_errors.ErrInvalidQuiz)
	assert.ErrorIs(t, ValidateOptions([]models.GameOption{{Text: "a", IsCorrect: true}, {Text: "b", IsCorrect: true}}), app_errors.ErrInvalidQuiz)
}

func TestCreateQuestion(t *testing.T) {
	svc, _, _ := newService()
	ctx := context.Background()

	_, err := svc.CreateQuestion(ctx, QuestionInput{Title: ptr("Hastings"), GameType: ptr(4), Options: options()})
	assert.ErrorIs(t, err, app_errors.ErrInvalidGameType)

	img := &models.Upload{Filename: "map.png", Reader: strings.NewReader("x"), Size: 1, ContentType: "image/png"}
	q, err := svc.CreateQuestion(ctx, QuestionInput{
		Title: ptr("Hastings"), GameType: ptr(models.GameTypeImageGuess), Options: options(), Image: img,
	})
	require.NoError(t, err)
	assert.Equal(t, "https://cdn/"+media.PrefixGames+"/map.png", q.ImageURL)
	assert.Len(t, q.Options, 2)
}

func TestCreateQuestionsBulk(t *testing.T) {
	svc, repo, _ := newService()
	created, err := svc.CreateQuestions(context.Background(), models.GameTypeGuessTheYear, []BulkQuestion{
		{Title: "Hastings", Options: options()},
		{Title: "Magna Carta", Options: options()},
	})
	require.NoError(t, err)
	assert.Len(t, created, 2)
	assert.Len(t, repo.questions, 2)

	_, err = svc.CreateQuestions(context.Background(), models.GameTypeGuessTheYear, []BulkQuestion{
		{Title: "Bad", Options: options()[:1]},
	})
	assert.ErrorIs(t, err, app_errors.ErrInvalidQuiz)
}

func TestQuestionsPaging(t *testing.T) {
	svc, repo, _ := newService()
	ctx := context.Background()

	p, err := svc.Questions(ctx, nil, 2, 0)
	require.NoError(t, err)
	assert.Equal(t, DefaultPageSize, p.Size)
	assert.Equal(t, 3, p.Pages)
	assert.Equal(t, 10, repo.offset)
	assert.Equal(t, 10, repo.limit)

	for _, tc := range []struct{ page, size int }{{0, 10}, {1, -1}, {1, 101}} {
		_, err := svc.Questions(ctx, nil, tc.page, tc.size)
		assert.ErrorIs(t, err, app_errors.ErrInvalidPagination)
	}
	_, err = svc.Questions(ctx, ptr(9), 1, 10)
	assert.ErrorIs(t, err, app_errors.ErrInvalidGameType)
}

func TestPages(t *testing.T) {
	assert.Equal(t, 0, Pages(0, 10))
	assert.Equal(t, 1, Pages(10, 10))
	assert.Equal(t, 2, Pages(11, 10))
}

func TestAttempt(t *testing.T) {
	svc, repo, rec := newService()
	ctx := context.Background()
	user := uuid.New()
	q, err := svc.CreateQuestion(ctx, QuestionInput{Title: ptr("Hastings"), GameType: ptr(1), Options: options()})
	require.NoError(t, err)

	res, err := svc.Attempt(ctx, user, q.ID, q.Options[0].ID)
	require.NoError(t, err)
	assert.True(t, res.IsCorrect)
	assert.Equal(t, models.GameCorrectPoints, res.PointsEarned)
	assert.Equal(t, q.Options[0].ID, res.CorrectOptionID)
	assert.Nil(t, res.BadgeUpdates)

	res, err = svc.Attempt(ctx, user, q.ID, q.Options[1].ID)
	require.NoError(t, err)
	assert.False(t, res.IsCorrect)
	assert.Zero(t, res.PointsEarned)

	assert.Len(t, repo.attempts, 2)
	assert.Equal(t, models.GameCorrectPoints, repo.points)
	assert.Equal(t, attempts{correct: 1, wrong: 1}, *rec)

	_, err = svc.Attempt(ctx, user, q.ID, uuid.New())
	assert.ErrorIs(t, err, app_errors.ErrGameOptionNotFound)
	_, err = svc.Attempt(ctx, user, uuid.New(), q.Options[0].ID)
	assert.ErrorIs(t, err, app_errors.ErrGameQuestionNotFound)
}
