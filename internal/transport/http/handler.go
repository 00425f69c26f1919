package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/wangxiaochuang/05-chat/internal/blob"
	"github.com/wangxiaochuang/05-chat/internal/domain"
	"github.com/wangxiaochuang/05-chat/internal/service"
	httpmw "github.com/wangxiaochuang/05-chat/internal/transport/http/middleware"
	"github.com/wangxiaochuang/05-chat/pkg/httputil"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// ~64 МБ на multipart-запрос
const maxUploadBytes = 64 << 20

// Сервисные зависимости сужены до интерфейсов: хендлеры тестируются
// на стабах без базы.
type AuthService interface {
	Signup(ctx context.Context, wsName, fullname, email, password string) (*service.AuthResult, error)
	Signin(ctx context.Context, email, password string) (*service.AuthResult, error)
}

type WorkspaceService interface {
	GetWorkspace(ctx context.Context, id int64) (*domain.Workspace, error)
	ListChatUsers(ctx context.Context, wsID int64) ([]domain.ChatUser, error)
}

type ChatService interface {
	CreateChat(ctx context.Context, wsID, creatorID int64, name *string, members []int64, public bool) (*domain.Chat, error)
	GetChat(ctx context.Context, chatID, userID int64) (*domain.Chat, error)
	ListChats(ctx context.Context, wsID, userID int64) ([]domain.Chat, error)
	UpdateChatName(ctx context.Context, chatID, actorID int64, name *string) (*domain.Chat, error)
	DeleteChat(ctx context.Context, chatID, actorID int64) error
	AddMember(ctx context.Context, chatID, actorID, memberID int64) (*domain.Chat, error)
	RemoveMember(ctx context.Context, chatID, actorID, memberID int64) (*domain.Chat, error)
}

type MessageService interface {
	AppendMessage(ctx context.Context, wsID, chatID, senderID int64, content string, files []string) (*domain.Message, error)
	ListMessages(ctx context.Context, chatID, userID int64, lastID *uuid.UUID, limit int) ([]domain.Message, error)
}

type Handler struct {
	authSvc AuthService
	wsSvc   WorkspaceService
	chatSvc ChatService
	msgSvc  MessageService
	blobs   *blob.Store
}

func NewHandler(auth AuthService, ws WorkspaceService, chat ChatService, msg MessageService, blobs *blob.Store) *Handler {
	return &Handler{
		authSvc: auth,
		wsSvc:   ws,
		chatSvc: chat,
		msgSvc:  msg,
		blobs:   blobs,
	}
}

// POST /api/signup
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	res, err := h.authSvc.Signup(r.Context(), req.Workspace, req.Fullname, req.Email, req.Password)
	if err != nil {
		writeErr(w, "handler.Signup", err)
		return
	}

	httputil.Created(w, AuthResponse{Token: res.Token})
}

// POST /api/signin
func (h *Handler) Signin(w http.ResponseWriter, r *http.Request) {
	var req SigninRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	res, err := h.authSvc.Signin(r.Context(), req.Email, req.Password)
	if err != nil {
		writeErr(w, "handler.Signin", err)
		return
	}

	httputil.OK(w, AuthResponse{Token: res.Token})
}

// GET /api/workspace
func (h *Handler) GetWorkspace(w http.ResponseWriter, r *http.Request) {
	id := httpmw.IdentityFromCtx(r.Context())

	ws, err := h.wsSvc.GetWorkspace(r.Context(), id.WsID)
	if err != nil {
		writeErr(w, "handler.GetWorkspace", err)
		return
	}

	httputil.OK(w, ws)
}

// GET /api/users
func (h *Handler) ListChatUsers(w http.ResponseWriter, r *http.Request) {
	id := httpmw.IdentityFromCtx(r.Context())

	users, err := h.wsSvc.ListChatUsers(r.Context(), id.WsID)
	if err != nil {
		writeErr(w, "handler.ListChatUsers", err)
		return
	}

	httputil.OK(w, users)
}

// POST /api/chats
func (h *Handler) CreateChat(w http.ResponseWriter, r *http.Request) {
	id := httpmw.IdentityFromCtx(r.Context())

	var req CreateChatRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	chat, err := h.chatSvc.CreateChat(r.Context(), id.WsID, id.UserID, req.Name, req.Members, req.Public)
	if err != nil {
		writeErr(w, "handler.CreateChat", err)
		return
	}

	httputil.Created(w, toChatItem(chat))
}

// GET /api/chats
func (h *Handler) ListChats(w http.ResponseWriter, r *http.Request) {
	id := httpmw.IdentityFromCtx(r.Context())

	chats, err := h.chatSvc.ListChats(r.Context(), id.WsID, id.UserID)
	if err != nil {
		writeErr(w, "handler.ListChats", err)
		return
	}

	items := make([]ChatItem, 0, len(chats))
	for i := range chats {
		items = append(items, toChatItem(&chats[i]))
	}

	httputil.OK(w, items)
}

// GET /api/chats/{id}
func (h *Handler) GetChat(w http.ResponseWriter, r *http.Request) {
	id := httpmw.IdentityFromCtx(r.Context())
	chatID, ok := chatIDParam(w, r)
	if !ok {
		return
	}

	chat, err := h.chatSvc.GetChat(r.Context(), chatID, id.UserID)
	if err != nil {
		writeErr(w, "handler.GetChat", err)
		return
	}

	httputil.OK(w, toChatItem(chat))
}

// PATCH /api/chats/{id}
func (h *Handler) UpdateChat(w http.ResponseWriter, r *http.Request) {
	id := httpmw.IdentityFromCtx(r.Context())
	chatID, ok := chatIDParam(w, r)
	if !ok {
		return
	}

	var req UpdateChatRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	chat, err := h.chatSvc.UpdateChatName(r.Context(), chatID, id.UserID, req.Name)
	if err != nil {
		writeErr(w, "handler.UpdateChat", err)
		return
	}

	httputil.OK(w, toChatItem(chat))
}

// DELETE /api/chats/{id}
func (h *Handler) DeleteChat(w http.ResponseWriter, r *http.Request) {
	id := httpmw.IdentityFromCtx(r.Context())
	chatID, ok := chatIDParam(w, r)
	if !ok {
		return
	}

	if err := h.chatSvc.DeleteChat(r.Context(), chatID, id.UserID); err != nil {
		writeErr(w, "handler.DeleteChat", err)
		return
	}

	httputil.OK(w, map[string]string{"status": "deleted"})
}

// POST /api/chats/{id}/members
func (h *Handler) AddChatMember(w http.ResponseWriter, r *http.Request) {
	id := httpmw.IdentityFromCtx(r.Context())
	chatID, ok := chatIDParam(w, r)
	if !ok {
		return
	}

	var req ChatMemberRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	chat, err := h.chatSvc.AddMember(r.Context(), chatID, id.UserID, req.UserID)
	if err != nil {
		writeErr(w, "handler.AddChatMember", err)
		return
	}

	httputil.OK(w, toChatItem(chat))
}

// DELETE /api/chats/{id}/members/{userID}
func (h *Handler) RemoveChatMember(w http.ResponseWriter, r *http.Request) {
	id := httpmw.IdentityFromCtx(r.Context())
	chatID, ok := chatIDParam(w, r)
	if !ok {
		return
	}

	memberID, err := strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
	if err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid user id", nil)
		return
	}

	chat, err := h.chatSvc.RemoveMember(r.Context(), chatID, id.UserID, memberID)
	if err != nil {
		writeErr(w, "handler.RemoveChatMember", err)
		return
	}

	httputil.OK(w, toChatItem(chat))
}

// POST /api/chats/{id}
func (h *Handler) SendMessage(w http.ResponseWriter, r *http.Request) {
	id := httpmw.IdentityFromCtx(r.Context())
	chatID, ok := chatIDParam(w, r)
	if !ok {
		return
	}

	var req SendMessageRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	msg, err := h.msgSvc.AppendMessage(r.Context(), id.WsID, chatID, id.UserID, req.Content, req.Files)
	if err != nil {
		writeErr(w, "handler.SendMessage", err)
		return
	}

	httputil.Created(w, toMessageItem(msg))
}

// GET /api/chats/{id}/message?last_id=&limit=
func (h *Handler) ListMessages(w http.ResponseWriter, r *http.Request) {
	id := httpmw.IdentityFromCtx(r.Context())
	chatID, ok := chatIDParam(w, r)
	if !ok {
		return
	}

	var lastID *uuid.UUID
	if s := r.URL.Query().Get("last_id"); s != "" {
		u, err := uuid.Parse(s)
		if err != nil {
			httputil.Error(w, http.StatusBadRequest, "invalid last_id", nil)
			return
		}
		lastID = &u
	}

	limit := 0
	if s := r.URL.Query().Get("limit"); s != "" {
		if n, err := strconv.Atoi(s); err == nil {
			limit = n
		}
	}

	msgs, err := h.msgSvc.ListMessages(r.Context(), chatID, id.UserID, lastID, limit)
	if err != nil {
		writeErr(w, "handler.ListMessages", err)
		return
	}

	items := make([]MessageItem, 0, len(msgs))
	for i := range msgs {
		items = append(items, toMessageItem(&msgs[i]))
	}

	httputil.OK(w, items)
}

// POST /api/upload — multipart, поле file (можно несколько).
// Ответ — список URL; повторная загрузка того же содержимого
// возвращает тот же URL.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	id := httpmw.IdentityFromCtx(r.Context())

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid multipart body", nil)
		return
	}

	var urls []string
	for _, headers := range r.MultipartForm.File {
		for _, fh := range headers {
			f, err := fh.Open()
			if err != nil {
				httputil.Error(w, http.StatusBadRequest, "unreadable file part", nil)
				return
			}
			data, err := io.ReadAll(f)
			f.Close()
			if err != nil {
				httputil.Error(w, http.StatusBadRequest, "unreadable file part", nil)
				return
			}
			if len(data) == 0 {
				httputil.Error(w, http.StatusBadRequest, "empty file", nil)
				return
			}

			cf, err := h.blobs.Put(id.WsID, fh.Filename, data)
			if err != nil {
				writeErr(w, "handler.Upload", err)
				return
			}
			urls = append(urls, cf.URL())
		}
	}
	if len(urls) == 0 {
		httputil.Error(w, http.StatusBadRequest, "no files in request", nil)
		return
	}

	httputil.OK(w, urls)
}

// GET /files/{wsID}/{p1}/{p2}/{name}
func (h *Handler) DownloadFile(w http.ResponseWriter, r *http.Request) {
	id := httpmw.IdentityFromCtx(r.Context())

	cf, err := domain.ChatFileFromURL(r.URL.Path)
	if err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid file path", nil)
		return
	}
	// файлы чужого workspace невидимы
	if cf.WsID != id.WsID {
		httputil.Error(w, http.StatusForbidden, "file belongs to another workspace", nil)
		return
	}

	data, err := h.blobs.Get(cf)
	if err != nil {
		writeErr(w, "handler.DownloadFile", err)
		return
	}

	w.Header().Set("Content-Type", mimetype.Detect(data).String())
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	_, _ = w.Write(data)
}

func chatIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		httputil.Error(w, http.StatusBadRequest, "invalid chat id", nil)
		return 0, false
	}
	return id, true
}

func decodeAndValidate(w http.ResponseWriter, r *http.Request, req any) bool {
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid json", nil)
		return false
	}
	if err := validate.Struct(req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "validation failed", map[string]any{"detail": err.Error()})
		return false
	}
	return true
}

// writeErr переводит доменную ошибку в HTTP-статус; всё, что не входит
// в таксономию, уходит как 500 с логом.
func writeErr(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		httputil.Error(w, http.StatusUnauthorized, "invalid credentials", nil)
	case errors.Is(err, domain.ErrNotMember), errors.Is(err, domain.ErrPermissionDenied):
		httputil.Error(w, http.StatusForbidden, "not a chat member", nil)
	case errors.Is(err, domain.ErrIntegrityMismatch):
		// для клиента повреждённый блоб неотличим от отсутствующего,
		// но оператору нужен сигнал о порче хранилища
		slog.Error(op+": stored content corrupted", slog.Any("err", err))
		httputil.Error(w, http.StatusNotFound, "not found", nil)
	case errors.Is(err, domain.ErrNotFound):
		httputil.Error(w, http.StatusNotFound, "not found", nil)
	case errors.Is(err, domain.ErrInvalidInput):
		httputil.Error(w, http.StatusBadRequest, err.Error(), nil)
	case errors.Is(err, domain.ErrEmailAlreadyExists):
		httputil.Error(w, http.StatusConflict, "email already exists", nil)
	case errors.Is(err, domain.ErrAlreadyMember):
		httputil.Error(w, http.StatusConflict, "already a member", nil)
	case errors.Is(err, domain.ErrInvalidMembership), errors.Is(err, domain.ErrInvalidChatType):
		httputil.Error(w, http.StatusUnprocessableEntity, err.Error(), nil)
	default:
		slog.Error(op+" failed", slog.Any("err", err))
		httputil.Error(w, http.StatusInternalServerError, "internal error", nil)
	}
}
