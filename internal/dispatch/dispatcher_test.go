package dispatch

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cellgit/BearBasic/internal/envelope"
	"github.com/cellgit/BearBasic/internal/session"
	"github.com/cellgit/BearBasic/internal/storage"
)

func bufferLogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})), &buf
}

func TestNotify_UserNotFoundLogsOut(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	sess := session.New(store)
	require.NoError(t, sess.Login(ctx, "Bearer t"))
	require.NoError(t, store.Set(ctx, storage.KeyUserInfo, `{"id":1}`))

	logger, _ := bufferLogger()
	d := New(sess.Logout, logger)

	_, err := envelope.Decode[map[string]any](
		[]byte(`{"status_code":200,"result":{"code":1002,"message":"用户不存在"}}`),
		200,
		envelope.WithNotifier(d),
	)
	var be *envelope.BusinessError
	require.True(t, errors.As(err, &be))

	loggedIn, err := sess.IsLoggedIn(ctx)
	require.NoError(t, err)
	assert.False(t, loggedIn)
	token, err := sess.Token(ctx)
	require.NoError(t, err)
	assert.Empty(t, token)
	_, ok, err := store.Get(ctx, storage.KeyUserInfo)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestNotify_OtherCodesKeepSession(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	sess := session.New(store)
	require.NoError(t, sess.Login(ctx, "Bearer t"))

	d := New(sess.Logout, nil)
	d.Notify(CodeUnauthorized, "未授权")
	d.Notify(404, "Not Found")

	loggedIn, err := sess.IsLoggedIn(ctx)
	require.NoError(t, err)
	assert.True(t, loggedIn)
}

func TestNotify_LogsKnownDescription(t *testing.T) {
	logger, buf := bufferLogger()
	d := New(nil, logger)

	d.Notify(CodeExamNotFound, "exam missing")
	out := buf.String()
	assert.Contains(t, out, "code=11002")
	assert.Contains(t, out, "description=试卷不存在")
	assert.Contains(t, out, "level=WARN")

	buf.Reset()
	d.Notify(CodeSuccess, "Success")
	assert.Contains(t, buf.String(), "level=DEBUG")
}

func TestNotify_ReactionErrorsAreSwallowed(t *testing.T) {
	logger, buf := bufferLogger()
	d := New(func(context.Context) error { return errors.New("store offline") }, logger)

	var ran []string
	d.Handle(CodeUserNotFound, func(_ context.Context, code int, msg string) error {
		ran = append(ran, msg)
		return nil
	})

	assert.NotPanics(t, func() { d.Notify(CodeUserNotFound, "gone") })
	assert.Equal(t, []string{"gone"}, ran)
	assert.Contains(t, buf.String(), "store offline")
}

func TestHandle_IgnoresNil(t *testing.T) {
	d := New(nil, nil)
	d.Handle(1, nil)
	assert.Empty(t, d.reactions)
}

func TestNotify_Concurrent(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	sess := session.New(store)
	require.NoError(t, sess.Login(ctx, "Bearer t"))
	d := New(sess.Logout, nil)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			d.Notify(CodeUserNotFound, "用户不存在")
		}()
	}
	wg.Wait()

	loggedIn, err := sess.IsLoggedIn(ctx)
	require.NoError(t, err)
	assert.False(t, loggedIn)
}

func TestCodes(t *testing.T) {
	codes := Codes()
	require.Len(t, codes, 15)
	assert.Equal(t, CodeUserNotFound, codes[0])
	assert.Equal(t, CodeNotResourceOwner, codes[len(codes)-1])

	msg, ok := Message(CodeMissingUUID)
	assert.True(t, ok)
	assert.Equal(t, "Header未传入uuid", msg)

	_, ok = Message(CodeSuccess)
	assert.False(t, ok)
	assert.Equal(t, "fallback", Describe(9999, "fallback"))
	assert.Equal(t, "验证失败", Describe(CodeValidationFailed, "x"))
}
