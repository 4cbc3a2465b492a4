package session

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmeshcher/storefront/internal/credentials"
	"github.com/mmeshcher/storefront/internal/model"
	"github.com/mmeshcher/storefront/internal/transport"
)

type stubAuthAPI struct {
	loginResp *model.AuthResponse
	loginErr  error

	registerResp *model.AuthResponse
	registerErr  error

	logoutErr     error
	logoutRefresh string

	profile    *model.User
	profileErr error
	// beforeProfile выполняется до ответа GetProfile.
	beforeProfile func()

	loginCalls   int
	logoutCalls  int
	profileCalls int
}

func (s *stubAuthAPI) Login(ctx context.Context, req model.LoginRequest) (*model.AuthResponse, error) {
	s.loginCalls++
	return s.loginResp, s.loginErr
}

func (s *stubAuthAPI) Register(ctx context.Context, req model.RegisterRequest) (*model.AuthResponse, error) {
	return s.registerResp, s.registerErr
}

func (s *stubAuthAPI) Logout(ctx context.Context, refreshToken string) error {
	s.logoutCalls++
	s.logoutRefresh = refreshToken
	return s.logoutErr
}

func (s *stubAuthAPI) GetProfile(ctx context.Context) (*model.User, error) {
	s.profileCalls++
	if s.beforeProfile != nil {
		s.beforeProfile()
	}
	return s.profile, s.profileErr
}

func (s *stubAuthAPI) networkCalls() int {
	return s.loginCalls + s.logoutCalls + s.profileCalls
}

type failingCreds struct {
	*credentials.MemoryStore
	loadErr  error
	saveErr  error
	clearErr error
}

func (f *failingCreds) Load(ctx context.Context) (model.Credentials, bool, error) {
	if f.loadErr != nil {
		return model.Credentials{}, false, f.loadErr
	}
	return f.MemoryStore.Load(ctx)
}

func (f *failingCreds) Save(ctx context.Context, c model.Credentials) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	return f.MemoryStore.Save(ctx, c)
}

func (f *failingCreds) Clear(ctx context.Context) error {
	if f.clearErr != nil {
		return f.clearErr
	}
	return f.MemoryStore.Clear(ctx)
}

func authResponse() *model.AuthResponse {
	return &model.AuthResponse{
		User:    model.User{ID: 1, Email: "a@b.com", Username: "a"},
		Access:  "T1",
		Refresh: "R1",
		Message: "Login successful",
	}
}

type transitions struct {
	values []bool
}

func (tr *transitions) listen(ctx context.Context, authenticated bool) {
	tr.values = append(tr.values, authenticated)
}

func TestNewStore_StartsLoading(t *testing.T) {
	s := NewStore(&stubAuthAPI{}, credentials.NewMemoryStore(), nil)

	st := s.State()
	assert.True(t, st.IsLoading())
	assert.False(t, st.IsAuthenticated())
	assert.Nil(t, st.User)
}

func TestInitialize_NoCredentials(t *testing.T) {
	api := &stubAuthAPI{}
	s := NewStore(api, credentials.NewMemoryStore(), nil)

	require.NoError(t, s.Initialize(context.Background()))

	assert.Equal(t, StatusUnauthenticated, s.State().Status)
	assert.Zero(t, api.networkCalls())
}

func TestInitialize_ValidCredentials(t *testing.T) {
	ctx := context.Background()
	creds := credentials.NewMemoryStore()
	require.NoError(t, creds.Save(ctx, model.Credentials{Access: "T1", Refresh: "R1"}))

	api := &stubAuthAPI{profile: &model.User{ID: 7, Username: "ann"}}
	s := NewStore(api, creds, nil)

	var tr transitions
	s.Subscribe(tr.listen)

	require.NoError(t, s.Initialize(ctx))

	st := s.State()
	assert.Equal(t, StatusAuthenticated, st.Status)
	require.NotNil(t, st.User)
	assert.Equal(t, int64(7), st.User.ID)
	assert.Equal(t, 1, api.profileCalls)
	assert.Equal(t, []bool{true}, tr.values)
}

func TestInitialize_RejectedCredentialsArePurged(t *testing.T) {
	ctx := context.Background()
	creds := credentials.NewMemoryStore()
	require.NoError(t, creds.Save(ctx, model.Credentials{Access: "expired", Refresh: "R0"}))

	api := &stubAuthAPI{profileErr: &transport.Error{Kind: transport.KindUnauthorized, StatusCode: 401}}
	s := NewStore(api, creds, nil)

	require.NoError(t, s.Initialize(ctx))

	assert.Equal(t, StatusUnauthenticated, s.State().Status)
	_, ok := creds.Get(credentials.KeyAccessToken)
	assert.False(t, ok)
	_, ok = creds.Get(credentials.KeyRefreshToken)
	assert.False(t, ok)
}

func TestInitialize_LoginDuringRestoreIsKept(t *testing.T) {
	ctx := context.Background()
	creds := credentials.NewMemoryStore()
	require.NoError(t, creds.Save(ctx, model.Credentials{Access: "expired", Refresh: "R0"}))

	api := &stubAuthAPI{
		loginResp:  authResponse(),
		profileErr: &transport.Error{Kind: transport.KindUnauthorized, StatusCode: 401},
	}
	s := NewStore(api, creds, nil)
	api.beforeProfile = func() {
		require.NoError(t, s.Login(ctx, "a@b.com", "x"))
	}

	var tr transitions
	s.Subscribe(tr.listen)

	require.NoError(t, s.Initialize(ctx))

	st := s.State()
	assert.Equal(t, StatusAuthenticated, st.Status)
	require.NotNil(t, st.User)
	assert.Equal(t, int64(1), st.User.ID)

	token, ok := creds.Get(credentials.KeyAccessToken)
	assert.True(t, ok)
	assert.Equal(t, "T1", token)
	assert.Equal(t, []bool{true}, tr.values)
}

func TestInitialize_StorageFailure(t *testing.T) {
	api := &stubAuthAPI{}
	creds := &failingCreds{MemoryStore: credentials.NewMemoryStore(), loadErr: errors.New("disk")}
	s := NewStore(api, creds, nil)

	err := s.Initialize(context.Background())
	require.Error(t, err)
	assert.Equal(t, StatusUnauthenticated, s.State().Status)
	assert.Zero(t, api.networkCalls())
}

func TestLogin_Success(t *testing.T) {
	ctx := context.Background()
	creds := credentials.NewMemoryStore()
	api := &stubAuthAPI{loginResp: authResponse()}
	s := NewStore(api, creds, nil)
	require.NoError(t, s.Initialize(ctx))

	var tr transitions
	s.Subscribe(tr.listen)

	require.NoError(t, s.Login(ctx, "a@b.com", "x"))

	st := s.State()
	assert.True(t, st.IsAuthenticated())
	require.NotNil(t, st.User)
	assert.Equal(t, int64(1), st.User.ID)

	access, _ := creds.Get(credentials.KeyAccessToken)
	refresh, _ := creds.Get(credentials.KeyRefreshToken)
	assert.Equal(t, "T1", access)
	assert.Equal(t, "R1", refresh)
	assert.Equal(t, []bool{true}, tr.values)
}

func TestLogin_FailureLeavesStateUntouched(t *testing.T) {
	ctx := context.Background()
	creds := credentials.NewMemoryStore()
	loginErr := &transport.Error{Kind: transport.KindValidation, Fields: map[string][]string{"non_field_errors": {"Invalid credentials"}}}
	api := &stubAuthAPI{loginErr: loginErr}
	s := NewStore(api, creds, nil)
	require.NoError(t, s.Initialize(ctx))

	var tr transitions
	s.Subscribe(tr.listen)

	err := s.Login(ctx, "a@b.com", "wrong")
	assert.ErrorIs(t, err, transport.ErrValidation)
	assert.Equal(t, StatusUnauthenticated, s.State().Status)
	_, ok := creds.Get(credentials.KeyAccessToken)
	assert.False(t, ok)
	assert.Empty(t, tr.values)
}

func TestLogin_PersistFailureLeavesStateUntouched(t *testing.T) {
	ctx := context.Background()
	creds := &failingCreds{MemoryStore: credentials.NewMemoryStore(), saveErr: errors.New("read-only")}
	s := NewStore(&stubAuthAPI{loginResp: authResponse()}, creds, nil)
	require.NoError(t, s.Initialize(ctx))

	require.Error(t, s.Login(ctx, "a@b.com", "x"))
	assert.Equal(t, StatusUnauthenticated, s.State().Status)
}

func TestLogin_WhileAuthenticatedDoesNotNotify(t *testing.T) {
	ctx := context.Background()
	api := &stubAuthAPI{loginResp: authResponse()}
	s := NewStore(api, credentials.NewMemoryStore(), nil)
	require.NoError(t, s.Initialize(ctx))
	require.NoError(t, s.Login(ctx, "a@b.com", "x"))

	var tr transitions
	s.Subscribe(tr.listen)

	second := authResponse()
	second.User.ID = 2
	api.loginResp = second
	require.NoError(t, s.Login(ctx, "c@d.com", "y"))

	assert.Equal(t, int64(2), s.State().User.ID, "last resolved login wins")
	assert.Empty(t, tr.values)
}

func TestRegister_Success(t *testing.T) {
	ctx := context.Background()
	creds := credentials.NewMemoryStore()
	resp := authResponse()
	resp.User.ID = 3
	s := NewStore(&stubAuthAPI{registerResp: resp}, creds, nil)
	require.NoError(t, s.Initialize(ctx))

	require.NoError(t, s.Register(ctx, model.RegisterRequest{Email: "a@b.com", Password: "p", PasswordConfirm: "p"}))

	assert.True(t, s.IsAuthenticated())
	assert.Equal(t, int64(3), s.State().User.ID)
	access, _ := creds.Get(credentials.KeyAccessToken)
	assert.Equal(t, "T1", access)
}

func TestRegister_Failure(t *testing.T) {
	ctx := context.Background()
	s := NewStore(&stubAuthAPI{registerErr: errors.New("boom")}, credentials.NewMemoryStore(), nil)
	require.NoError(t, s.Initialize(ctx))

	require.Error(t, s.Register(ctx, model.RegisterRequest{}))
	assert.Equal(t, StatusUnauthenticated, s.State().Status)
}

func TestLogout_NotifiesServerAndClears(t *testing.T) {
	ctx := context.Background()
	creds := credentials.NewMemoryStore()
	api := &stubAuthAPI{loginResp: authResponse()}
	s := NewStore(api, creds, nil)
	require.NoError(t, s.Initialize(ctx))
	require.NoError(t, s.Login(ctx, "a@b.com", "x"))

	var tr transitions
	s.Subscribe(tr.listen)

	require.NoError(t, s.Logout(ctx))

	assert.Equal(t, 1, api.logoutCalls)
	assert.Equal(t, "R1", api.logoutRefresh)
	assert.Equal(t, StatusUnauthenticated, s.State().Status)
	assert.Nil(t, s.State().User)
	_, ok := creds.Get(credentials.KeyAccessToken)
	assert.False(t, ok)
	assert.Equal(t, []bool{false}, tr.values)
}

func TestLogout_ServerFailureStillClears(t *testing.T) {
	ctx := context.Background()
	creds := credentials.NewMemoryStore()
	api := &stubAuthAPI{loginResp: authResponse(), logoutErr: &transport.Error{Kind: transport.KindNetwork}}
	s := NewStore(api, creds, nil)
	require.NoError(t, s.Initialize(ctx))
	require.NoError(t, s.Login(ctx, "a@b.com", "x"))

	require.NoError(t, s.Logout(ctx))

	assert.Equal(t, StatusUnauthenticated, s.State().Status)
	_, ok := creds.Get(credentials.KeyAccessToken)
	assert.False(t, ok)
	_, ok = creds.Get(credentials.KeyRefreshToken)
	assert.False(t, ok)
}

func TestLogout_WithoutRefreshTokenSkipsServer(t *testing.T) {
	ctx := context.Background()
	api := &stubAuthAPI{}
	s := NewStore(api, credentials.NewMemoryStore(), nil)
	require.NoError(t, s.Initialize(ctx))

	require.NoError(t, s.Logout(ctx))
	assert.Zero(t, api.logoutCalls)
	assert.Equal(t, StatusUnauthenticated, s.State().Status)
}

func TestLogout_ClearFailureIsReturnedAfterStateCleared(t *testing.T) {
	ctx := context.Background()
	creds := &failingCreds{MemoryStore: credentials.NewMemoryStore()}
	s := NewStore(&stubAuthAPI{loginResp: authResponse()}, creds, nil)
	require.NoError(t, s.Initialize(ctx))
	require.NoError(t, s.Login(ctx, "a@b.com", "x"))

	creds.clearErr = errors.New("locked")
	require.Error(t, s.Logout(ctx))
	assert.Equal(t, StatusUnauthenticated, s.State().Status)
}

func TestUpdateUser_MergesWithoutRequests(t *testing.T) {
	ctx := context.Background()
	api := &stubAuthAPI{loginResp: authResponse()}
	s := NewStore(api, credentials.NewMemoryStore(), nil)
	require.NoError(t, s.Initialize(ctx))
	require.NoError(t, s.Login(ctx, "a@b.com", "x"))
	callsBefore := api.networkCalls()

	phone := "+100"
	s.UpdateUser(model.UserPatch{Phone: &phone})

	st := s.State()
	assert.Equal(t, "+100", st.User.Phone)
	assert.Equal(t, "a@b.com", st.User.Email)
	assert.True(t, st.IsAuthenticated())
	assert.Equal(t, callsBefore, api.networkCalls())
}

func TestUpdateUser_NoUserIsNoop(t *testing.T) {
	s := NewStore(&stubAuthAPI{}, credentials.NewMemoryStore(), nil)
	require.NoError(t, s.Initialize(context.Background()))

	name := "x"
	s.UpdateUser(model.UserPatch{FirstName: &name})
	assert.Nil(t, s.State().User)
}

func TestState_ReturnsCopy(t *testing.T) {
	ctx := context.Background()
	s := NewStore(&stubAuthAPI{loginResp: authResponse()}, credentials.NewMemoryStore(), nil)
	require.NoError(t, s.Initialize(ctx))
	require.NoError(t, s.Login(ctx, "a@b.com", "x"))

	st := s.State()
	st.User.Email = "mutated"
	assert.Equal(t, "a@b.com", s.State().User.Email)
}

func TestReduce(t *testing.T) {
	u := model.User{ID: 1, FirstName: "A"}

	st := reduce(State{Status: StatusLoading}, setUser{user: u})
	assert.Equal(t, StatusAuthenticated, st.Status)

	name := "B"
	st = reduce(st, updateUser{patch: model.UserPatch{FirstName: &name}})
	assert.Equal(t, "B", st.User.FirstName)
	assert.Equal(t, "A", u.FirstName)

	st = reduce(st, clearUser{})
	assert.Equal(t, State{Status: StatusUnauthenticated}, st)
}
