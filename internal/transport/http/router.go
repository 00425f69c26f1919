package http

import (
	"net/http"
	"time"

	httpmw "github.com/wangxiaochuang/05-chat/internal/transport/http/middleware"
	"github.com/wangxiaochuang/05-chat/pkg/httputil"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

func NewRouter(h *Handler, verifier httpmw.TokenVerifier) http.Handler {
	r := chi.NewRouter()
	r.Use(httputil.MiddlewareRequestID)
	r.Use(chimw.RealIP)
	r.Use(httputil.MiddlewareLogging)
	r.Use(chimw.Recoverer)

	r.Route("/api", func(api chi.Router) {
		api.Use(chimw.Timeout(30 * time.Second))

		api.Post("/signup", h.Signup)
		api.Post("/signin", h.Signin)

		api.Group(func(pr chi.Router) {
			pr.Use(httpmw.Auth(verifier))

			pr.Get("/workspace", h.GetWorkspace)
			pr.Get("/users", h.ListChatUsers)

			pr.Route("/chats", func(ch chi.Router) {
				ch.Get("/", h.ListChats)
				ch.Post("/", h.CreateChat)

				ch.Route("/{id}", func(cr chi.Router) {
					cr.Get("/", h.GetChat)
					cr.Post("/", h.SendMessage)
					cr.Patch("/", h.UpdateChat)
					cr.Delete("/", h.DeleteChat)
					cr.Get("/message", h.ListMessages)
					cr.Post("/members", h.AddChatMember)
					cr.Delete("/members/{userID}", h.RemoveChatMember)
				})
			})

			pr.Post("/upload", h.Upload)
		})
	})

	// скачивание файлов: вне /api, но под тем же bearer
	r.Group(func(fr chi.Router) {
		fr.Use(httpmw.Auth(verifier))
		fr.Get("/files/{wsID}/{p1}/{p2}/{name}", h.DownloadFile)
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	return r
}
