package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
)

// RegisterRoutes mounts the API on r. The protect middlewares run, in order, before
// every route that needs a logged in caller; public middlewares guard the login route.
func RegisterRoutes(r *mux.Router, projects *ProjectHandler, tasks *TaskHandler, accounts *AccountHandler, public []mux.MiddlewareFunc, protect []mux.MiddlewareFunc) {
	r.Handle("/account/login", chain(http.HandlerFunc(accounts.Login), public)).Methods(http.MethodPost)
	r.Handle("/account/info", chain(http.HandlerFunc(accounts.GetInfo), protect)).Methods(http.MethodGet)

	p := r.PathPrefix("/project").Subrouter()
	p.Use(protect...)
	p.HandleFunc("/create", projects.CreateProject).Methods(http.MethodPost)
	p.HandleFunc("/list", projects.GetProjectList).Methods(http.MethodGet)
	p.HandleFunc("/detail", projects.GetDetails).Methods(http.MethodGet)
	p.HandleFunc("/status/statistic", projects.GetStatusStatistic).Methods(http.MethodGet)
	p.HandleFunc("/task/statistic", projects.GetTaskStatistic).Methods(http.MethodGet)
	p.HandleFunc("/favorite/status", projects.GetFavoriteStatus).Methods(http.MethodGet)
	p.HandleFunc("/favorite/list", projects.GetFavoriteList).Methods(http.MethodGet)
	p.HandleFunc("/favorite/add", projects.AddToFavorite).Methods(http.MethodPost)
	p.HandleFunc("/favorite/remove", projects.RemoveFromFavorite).Methods(http.MethodDelete)
	p.HandleFunc("/tasks", projects.GetTasks).Methods(http.MethodGet)
	p.HandleFunc("/attachments", projects.UploadAttachments).Methods(http.MethodPost)
	p.HandleFunc("/attachments/list", projects.GetAttachments).Methods(http.MethodGet)
	p.HandleFunc("/attachments/download", projects.DownloadAttachment).Methods(http.MethodGet)
	p.HandleFunc("/search", projects.Search).Methods(http.MethodGet)
	p.HandleFunc("/done/check", projects.DoneCheck).Methods(http.MethodGet)
	p.HandleFunc("/done/set", projects.SetDone).Methods(http.MethodPost)
	p.HandleFunc("/status", projects.GetStatus).Methods(http.MethodGet)
	p.HandleFunc("/activities", projects.GetActivities).Methods(http.MethodGet)

	t := r.PathPrefix("/task").Subrouter()
	t.Use(protect...)
	t.HandleFunc("/create", tasks.CreateTask).Methods(http.MethodPost)
	t.HandleFunc("/list", tasks.GetTaskList).Methods(http.MethodGet)
	t.HandleFunc("/attachments", tasks.UploadAttachments).Methods(http.MethodPost)
	t.HandleFunc("/attachments/list", tasks.GetAttachments).Methods(http.MethodGet)
	t.HandleFunc("/attachments/download", tasks.DownloadAttachment).Methods(http.MethodGet)
	t.HandleFunc("/todo", tasks.GetTodoList).Methods(http.MethodGet)
	t.HandleFunc("/remove", tasks.DeleteTask).Methods(http.MethodDelete)
}

func chain(h http.Handler, middlewares []mux.MiddlewareFunc) http.Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}
