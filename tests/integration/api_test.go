package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/notesphere/backend/internal/domain"
	"github.com/notesphere/backend/internal/handler"
	"github.com/notesphere/backend/internal/migration"
	"github.com/notesphere/backend/internal/repository"
	"github.com/notesphere/backend/internal/routes"
	"github.com/notesphere/backend/internal/service"
	"github.com/notesphere/backend/pkg/cache"
	"github.com/notesphere/backend/pkg/jwt"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// APISuite exercises the HTTP API end to end against an in-memory database
type APISuite struct {
	suite.Suite
	db         *gorm.DB
	router     *gin.Engine
	jwtManager *jwt.Manager
}

func TestAPISuite(t *testing.T) {
	suite.Run(t, new(APISuite))
}

func (s *APISuite) SetupSuite() {
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	s.Require().NoError(err)
	s.Require().NoError(migration.Run(db))
	s.db = db

	s.jwtManager = jwt.NewManager("test-secret-key-for-integration-tests", 900, 86400)

	userRepo := repository.NewUserRepository(db)
	noteRepo := repository.NewNoteRepository(db)
	repoRepo := repository.NewRepoRepository(db)
	shareRepo := repository.NewShareRepository(db)
	friendshipRepo := repository.NewFriendshipRepository(db)
	followRepo := repository.NewFollowRepository(db)
	likeRepo := repository.NewLikeRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	resolver := service.NewAccessResolver(shareRepo)
	notificationSvc := service.NewNotificationService(notificationRepo)
	shareSvc := service.NewShareService(shareRepo, userRepo, resolver, notificationSvc)
	authSvc := service.NewAuthService(userRepo, s.jwtManager)
	userSvc := service.NewUserService(userRepo)
	searchSvc := service.NewSearchService(nil, "", noteRepo, resolver)
	cacheSvc := cache.NewService(nil)
	noteSvc := service.NewNoteService(noteRepo, repoRepo, likeRepo, userRepo, resolver, shareSvc, searchSvc, cacheSvc)
	repoSvc := service.NewRepositoryService(repoRepo, noteRepo, followRepo, likeRepo, userRepo, resolver, shareSvc, noteSvc, cacheSvc)
	friendshipSvc := service.NewFriendshipService(friendshipRepo, userRepo, notificationSvc)
	followSvc := service.NewFollowService(followRepo, repoRepo, userRepo, repoSvc, notificationSvc)
	likeSvc := service.NewLikeService(likeRepo, noteRepo, repoRepo, userRepo, resolver, notificationSvc)
	commentSvc := service.NewCommentService(commentRepo, noteRepo, repoRepo, userRepo, resolver, notificationSvc)
	messageSvc := service.NewMessageService(messageRepo, userRepo, friendshipRepo, notificationSvc)

	s.router = gin.New()
	routes.Setup(s.router,
		handler.NewAuthHandler(authSvc),
		handler.NewUserHandler(userSvc),
		handler.NewNoteHandler(noteSvc, cacheSvc),
		handler.NewRepositoryHandler(repoSvc),
		handler.NewFriendshipHandler(friendshipSvc),
		handler.NewFollowHandler(followSvc),
		handler.NewLikeHandler(likeSvc, domain.KindNote),
		handler.NewLikeHandler(likeSvc, domain.KindRepository),
		handler.NewCommentHandler(commentSvc),
		handler.NewMessageHandler(messageSvc),
		handler.NewNotificationHandler(notificationSvc),
		s.jwtManager,
	)
}

func (s *APISuite) request(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *APISuite) decode(w *httptest.ResponseRecorder) map[string]interface{} {
	var resp map[string]interface{}
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func (s *APISuite) data(w *httptest.ResponseRecorder) map[string]interface{} {
	resp := s.decode(w)
	s.Require().Nil(resp["error"], "response: %s", w.Body.String())
	data, ok := resp["data"].(map[string]interface{})
	s.Require().True(ok, "response: %s", w.Body.String())
	return data
}

// registerAndLogin creates an account and returns an access token
func (s *APISuite) registerAndLogin(username string) string {
	w := s.request(http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"username": username,
		"email":    username + "@example.com",
		"password": "password123",
	})
	s.Require().Equal(http.StatusCreated, w.Code, "register: %s", w.Body.String())

	w = s.request(http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"username": username,
		"password": "password123",
	})
	s.Require().Equal(http.StatusOK, w.Code, "login: %s", w.Body.String())

	token, ok := s.data(w)["access_token"].(string)
	s.Require().True(ok)
	return token
}

func (s *APISuite) TestRegisterValidation() {
	w := s.request(http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"username": "ab",
		"email":    "not-an-email",
		"password": "short",
	})
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *APISuite) TestNoteSharingFlow() {
	owner := s.registerAndLogin("note-owner")
	reader := s.registerAndLogin("note-reader")

	// Owner creates a private note
	w := s.request(http.MethodPost, "/api/v1/notes", owner, map[string]interface{}{
		"title":   "research draft",
		"content": "unpublished findings",
	})
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	noteID := uint64(s.data(w)["id"].(float64))

	notePath := fmt.Sprintf("/api/v1/notes/%d", noteID)

	// The other user cannot see it
	w = s.request(http.MethodGet, notePath, reader, nil)
	s.Equal(http.StatusForbidden, w.Code)

	// Neither can an anonymous visitor
	w = s.request(http.MethodGet, notePath, "", nil)
	s.Equal(http.StatusForbidden, w.Code)

	// Owner grants read access
	w = s.request(http.MethodPost, notePath+"/shares", owner, map[string]string{
		"username":   "note-reader",
		"permission": "read",
	})
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	// Now the grant holder reads it
	w = s.request(http.MethodGet, notePath, reader, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.Equal("research draft", s.data(w)["title"])

	// But cannot edit with a read grant
	w = s.request(http.MethodPut, notePath, reader, map[string]interface{}{
		"title":   "defaced",
		"content": "oops",
	})
	s.Equal(http.StatusForbidden, w.Code)

	// Upgrade to write and edit
	w = s.request(http.MethodPut, notePath+"/shares", owner, map[string]string{
		"username":   "note-reader",
		"permission": "write",
	})
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	w = s.request(http.MethodPut, notePath, reader, map[string]interface{}{
		"title":   "research draft v2",
		"content": "revised findings",
	})
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	// Revoke and the door closes again
	w = s.request(http.MethodDelete, notePath+"/shares/note-reader", owner, nil)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	w = s.request(http.MethodGet, notePath, reader, nil)
	s.Equal(http.StatusForbidden, w.Code)
}

func (s *APISuite) TestPublicFeedAnonymous() {
	author := s.registerAndLogin("feed-author")

	w := s.request(http.MethodPost, "/api/v1/notes", author, map[string]interface{}{
		"title":   "hello world",
		"content": "first public note",
		"public":  true,
	})
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	w = s.request(http.MethodGet, "/api/v1/notes/public", "", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	resp := s.decode(w)
	s.Nil(resp["error"])
	s.NotNil(resp["data"])
}

func (s *APISuite) TestNoteCreateRequiresAuth() {
	w := s.request(http.MethodPost, "/api/v1/notes", "", map[string]interface{}{
		"title": "drive-by",
	})
	s.Equal(http.StatusUnauthorized, w.Code)
}

func (s *APISuite) TestFriendshipFlow() {
	requester := s.registerAndLogin("fr-requester")
	receiver := s.registerAndLogin("fr-receiver")

	w := s.request(http.MethodPost, "/api/v1/friends/requests", requester, map[string]string{
		"username": "fr-receiver",
	})
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	requestID := uint64(s.data(w)["id"].(float64))

	// The receiver sees it pending and accepts
	w = s.request(http.MethodGet, "/api/v1/friends/requests/received", receiver, nil)
	s.Require().Equal(http.StatusOK, w.Code)

	w = s.request(http.MethodPost, fmt.Sprintf("/api/v1/friends/requests/%d/accept", requestID), receiver, nil)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	// Both sides now list each other
	w = s.request(http.MethodGet, "/api/v1/friends", requester, nil)
	s.Require().Equal(http.StatusOK, w.Code)

	// The requester got an acceptance notification
	w = s.request(http.MethodGet, "/api/v1/notifications", requester, nil)
	s.Require().Equal(http.StatusOK, w.Code)
}

func (s *APISuite) TestMessagingFlow() {
	sender := s.registerAndLogin("dm-sender")
	receiver := s.registerAndLogin("dm-receiver")

	w := s.request(http.MethodPost, "/api/v1/messages", sender, map[string]string{
		"receiver_username": "dm-receiver",
		"content":           "are you going to the talk?",
	})
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	w = s.request(http.MethodGet, "/api/v1/messages/unread-count", receiver, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.EqualValues(1, s.data(w)["unread"])

	// Reading the conversation clears the counter
	w = s.request(http.MethodGet, "/api/v1/messages/conversations/"+s.userIDOf("dm-sender"), receiver, nil)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	w = s.request(http.MethodGet, "/api/v1/messages/unread-count", receiver, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.EqualValues(0, s.data(w)["unread"])
}

func (s *APISuite) TestRepositoryFollowFlow() {
	owner := s.registerAndLogin("repo-owner")
	fan := s.registerAndLogin("repo-fan")

	w := s.request(http.MethodPost, "/api/v1/repositories", owner, map[string]interface{}{
		"name":   "open research",
		"public": true,
	})
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	repoID := uint64(s.data(w)["id"].(float64))

	followPath := fmt.Sprintf("/api/v1/repositories/%d/follow", repoID)

	w = s.request(http.MethodPost, followPath, fan, nil)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	s.Equal(true, s.data(w)["following"])

	// Double follow is rejected, toggle flips it off
	w = s.request(http.MethodPost, followPath, fan, nil)
	s.Equal(http.StatusConflict, w.Code)

	w = s.request(http.MethodPost, followPath+"/toggle", fan, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.Equal(false, s.data(w)["following"])
}

func (s *APISuite) userIDOf(username string) string {
	var user domain.User
	s.Require().NoError(s.db.Where("username = ?", username).First(&user).Error)
	return fmt.Sprintf("%d", user.ID)
}
