package orchestrator

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"videothingy/narrator/internal/auth"
	"videothingy/narrator/internal/speech"
	"videothingy/narrator/internal/video"
	"videothingy/narrator/internal/voices"
	"videothingy/narrator/models"
)

type mockIdentity struct{ mock.Mock }

func (m *mockIdentity) CurrentUser(ctx context.Context, token string) (*auth.User, error) {
	args := m.Called(ctx, token)
	u, _ := args.Get(0).(*auth.User)
	return u, args.Error(1)
}

type mockStore struct{ mock.Mock }

func (m *mockStore) Insert(ctx context.Context, v models.NewVideo) (*models.Video, error) {
	args := m.Called(ctx, v)
	row, _ := args.Get(0).(*models.Video)
	return row, args.Error(1)
}

func (m *mockStore) Complete(ctx context.Context, id uuid.UUID, videoURL, audioURL string) error {
	return m.Called(ctx, id, videoURL, audioURL).Error(0)
}

func (m *mockStore) Fail(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockStore) Get(ctx context.Context, id uuid.UUID) (*models.Video, error) {
	args := m.Called(ctx, id)
	row, _ := args.Get(0).(*models.Video)
	return row, args.Error(1)
}

type mockSpeech struct{ mock.Mock }

func (m *mockSpeech) Synthesize(ctx context.Context, text, voiceID string) (*speech.Audio, error) {
	args := m.Called(ctx, text, voiceID)
	a, _ := args.Get(0).(*speech.Audio)
	return a, args.Error(1)
}

type mockUploader struct{ mock.Mock }

func (m *mockUploader) UploadAudio(ctx context.Context, path string, data []byte, contentType string) (string, error) {
	args := m.Called(ctx, path, data, contentType)
	return args.String(0), args.Error(1)
}

type mockVideo struct{ mock.Mock }

func (m *mockVideo) Generate(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

type fixture struct {
	identity *mockIdentity
	store    *mockStore
	speech   *mockSpeech
	uploader *mockUploader
	video    *mockVideo
	orch     *Orchestrator
	user     *auth.User
	row      *models.Video
}

func newFixture() *fixture {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	f := &fixture{
		identity: &mockIdentity{},
		store:    &mockStore{},
		speech:   &mockSpeech{},
		uploader: &mockUploader{},
		video:    &mockVideo{},
		user:     &auth.User{ID: uuid.New(), Email: "maker@example.com"},
	}
	f.row = &models.Video{
		ID:      uuid.New(),
		UserID:  f.user.ID,
		Title:   "Ocean dawn",
		Script:  "The sun rises over the sea.",
		VoiceID: "en-US-2",
		Status:  models.StatusProcessing,
	}
	f.orch = New(f.identity, f.store, f.speech, f.uploader, f.video, voices.NewCatalog(models.DefaultVoices), logger)
	return f
}

func (f *fixture) request() Request {
	return Request{AccessToken: "token", Title: f.row.Title, Script: f.row.Script, VoiceID: f.row.VoiceID}
}

func (f *fixture) expectInsert() {
	f.identity.On("CurrentUser", mock.Anything, "token").Return(f.user, nil)
	f.store.On("Insert", mock.Anything, models.NewVideo{
		UserID:  f.user.ID,
		Title:   f.row.Title,
		Script:  f.row.Script,
		VoiceID: "en-US-2",
		Status:  models.StatusProcessing,
	}).Return(f.row, nil).Once()
}

func TestGenerate_Success(t *testing.T) {
	f := newFixture()
	f.expectInsert()

	audio := &speech.Audio{Data: []byte("mp3"), ContentType: "audio/mpeg"}
	audioPath := f.user.ID.String() + "/" + f.row.ID.String() + ".mp3"
	f.speech.On("Synthesize", mock.Anything, f.row.Script, "EXAVITQu4vr4xnSDxMaL").Return(audio, nil)
	f.uploader.On("UploadAudio", mock.Anything, audioPath, audio.Data, "audio/mpeg").Return("https://cdn/audio.mp3", nil)
	f.video.On("Generate", mock.Anything, f.row.Title).Return("https://cdn/video.mp4", nil)
	f.store.On("Complete", mock.Anything, f.row.ID, "https://cdn/video.mp4", "https://cdn/audio.mp3").Return(nil)

	stored := f.row.Clone()
	stored.Status = models.StatusCompleted
	stored.VideoURL = models.StringPtr("https://cdn/video.mp4")
	stored.AudioURL = models.StringPtr("https://cdn/audio.mp3")
	f.store.On("Get", mock.Anything, f.row.ID).Return(&stored, nil)

	var created []models.Video
	got, err := f.orch.Generate(context.Background(), f.request(), Hooks{
		OnCreated: func(v models.Video) { created = append(created, v) },
	})
	require.NoError(t, err)

	assert.Equal(t, models.StatusCompleted, got.Status)
	require.NotNil(t, got.VideoURL)
	require.NotNil(t, got.AudioURL)
	assert.Equal(t, "https://cdn/video.mp4", *got.VideoURL)
	assert.Equal(t, "https://cdn/audio.mp3", *got.AudioURL)

	require.Len(t, created, 1)
	assert.Equal(t, models.StatusProcessing, created[0].Status)
	f.store.AssertNumberOfCalls(t, "Insert", 1)
	f.store.AssertNotCalled(t, "Fail", mock.Anything, mock.Anything)
}

func TestGenerate_RefetchFailureReturnsLocalCopy(t *testing.T) {
	f := newFixture()
	f.expectInsert()

	f.speech.On("Synthesize", mock.Anything, mock.Anything, mock.Anything).
		Return(&speech.Audio{Data: []byte("mp3"), ContentType: "audio/mpeg"}, nil)
	f.uploader.On("UploadAudio", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return("https://cdn/a.mp3", nil)
	f.video.On("Generate", mock.Anything, mock.Anything).Return("https://cdn/v.mp4", nil)
	f.store.On("Complete", mock.Anything, f.row.ID, "https://cdn/v.mp4", "https://cdn/a.mp3").Return(nil)
	f.store.On("Get", mock.Anything, f.row.ID).Return(nil, errors.New("connection reset"))

	got, err := f.orch.Generate(context.Background(), f.request(), Hooks{})
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, got.Status)
	assert.Equal(t, "https://cdn/v.mp4", *got.VideoURL)
}

func TestGenerate_SpeechFailureMarksFailed(t *testing.T) {
	f := newFixture()
	f.expectInsert()

	speechErr := errors.Join(speech.ErrSpeechFailed, errors.New("status 401"))
	f.speech.On("Synthesize", mock.Anything, mock.Anything, mock.Anything).Return(nil, speechErr)
	f.store.On("Fail", mock.Anything, f.row.ID).Return(nil)

	got, err := f.orch.Generate(context.Background(), f.request(), Hooks{})
	require.Error(t, err)
	assert.Nil(t, got)

	var genErr *GenerationError
	require.ErrorAs(t, err, &genErr)
	assert.Equal(t, KindProvider, genErr.Kind)
	assert.Equal(t, "Failed to generate speech", genErr.UserMessage())

	f.store.AssertCalled(t, "Fail", mock.Anything, f.row.ID)
	f.video.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything)
	f.uploader.AssertNotCalled(t, "UploadAudio", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	f.store.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestGenerate_VideoFailureMarksFailed(t *testing.T) {
	f := newFixture()
	f.expectInsert()

	f.speech.On("Synthesize", mock.Anything, mock.Anything, mock.Anything).
		Return(&speech.Audio{Data: []byte("mp3"), ContentType: "audio/mpeg"}, nil)
	f.uploader.On("UploadAudio", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return("https://cdn/a.mp3", nil)
	f.video.On("Generate", mock.Anything, mock.Anything).Return("", errors.Join(video.ErrVideoFailed, errors.New("canceled")))
	f.store.On("Fail", mock.Anything, f.row.ID).Return(nil)

	_, err := f.orch.Generate(context.Background(), f.request(), Hooks{})
	require.Error(t, err)
	assert.Equal(t, "Failed to generate video", UserMessage(err))

	f.store.AssertCalled(t, "Fail", mock.Anything, f.row.ID)
	f.store.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestGenerate_NoSignedInUser(t *testing.T) {
	f := newFixture()
	f.identity.On("CurrentUser", mock.Anything, "").Return(nil, auth.ErrNoSignedInUser)

	req := f.request()
	req.AccessToken = ""
	_, err := f.orch.Generate(context.Background(), req, Hooks{})

	var genErr *GenerationError
	require.ErrorAs(t, err, &genErr)
	assert.Equal(t, KindAuth, genErr.Kind)
	assert.Equal(t, "Please sign in to generate videos", genErr.UserMessage())
	f.store.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
	f.store.AssertNotCalled(t, "Fail", mock.Anything, mock.Anything)
}

func TestGenerate_InsertFailureLeavesNoRow(t *testing.T) {
	f := newFixture()
	f.identity.On("CurrentUser", mock.Anything, "token").Return(f.user, nil)
	f.store.On("Insert", mock.Anything, mock.Anything).Return(nil, errors.New("permission denied"))

	_, err := f.orch.Generate(context.Background(), f.request(), Hooks{})

	var genErr *GenerationError
	require.ErrorAs(t, err, &genErr)
	assert.Equal(t, KindPersistence, genErr.Kind)
	assert.Equal(t, "Failed to save video", genErr.UserMessage())
	f.store.AssertNotCalled(t, "Fail", mock.Anything, mock.Anything)
	f.speech.AssertNotCalled(t, "Synthesize", mock.Anything, mock.Anything, mock.Anything)
}

func TestGenerate_FailsRowEvenAfterCancel(t *testing.T) {
	f := newFixture()
	f.expectInsert()

	ctx, cancel := context.WithCancel(context.Background())
	f.speech.On("Synthesize", mock.Anything, mock.Anything, mock.Anything).
		Run(func(mock.Arguments) { cancel() }).
		Return(nil, context.Canceled)
	f.store.On("Fail", mock.MatchedBy(func(c context.Context) bool { return c.Err() == nil }), f.row.ID).Return(nil)

	_, err := f.orch.Generate(ctx, f.request(), Hooks{})
	require.Error(t, err)
	f.store.AssertCalled(t, "Fail", mock.Anything, f.row.ID)
}

func TestGenerate_PanicAfterInsertMarksFailed(t *testing.T) {
	f := newFixture()
	f.expectInsert()

	f.speech.On("Synthesize", mock.Anything, mock.Anything, mock.Anything).
		Return(&speech.Audio{Data: []byte("mp3"), ContentType: "audio/mpeg"}, nil)
	f.uploader.On("UploadAudio", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Panic("storage client not initialized")
	f.store.On("Fail", mock.Anything, f.row.ID).Return(nil)

	var got *models.Video
	var err error
	require.NotPanics(t, func() {
		got, err = f.orch.Generate(context.Background(), f.request(), Hooks{})
	})
	assert.Nil(t, got)

	var genErr *GenerationError
	require.ErrorAs(t, err, &genErr)
	assert.Equal(t, KindUnexpected, genErr.Kind)
	assert.ErrorIs(t, err, ErrPanicked)
	assert.Equal(t, "Failed to generate video", UserMessage(err))

	f.store.AssertCalled(t, "Fail", mock.Anything, f.row.ID)
	f.video.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything)
}
