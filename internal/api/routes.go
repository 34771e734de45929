package api

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// RegisterRoutes mounts the task and system endpoints on r. Import routes
// reject bodies larger than maxUploadBytes.
func RegisterRoutes(r chi.Router, tasks *TaskHandler, system *SystemHandler, maxUploadBytes int64) {
	r.Get("/health", system.Health)
	r.Get("/info", system.Info)

	r.Route("/tasks", func(r chi.Router) {
		r.Post("/", tasks.CreateTask)
		r.Get("/", tasks.ListTasks)
		r.Delete("/", tasks.BulkDeleteTasks)

		r.Get("/count", tasks.CountTasks)
		r.Get("/stats", tasks.GetStats)
		r.Get("/search/by_tag", tasks.SearchByTag)
		r.Get("/search/by_priority", tasks.SearchByPriority)

		r.Group(func(r chi.Router) {
			r.Use(chimiddleware.RequestSize(maxUploadBytes))
			r.Post("/import", tasks.ImportTasks)
			r.Post("/import/file", tasks.ImportTasksFile)
		})

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", tasks.GetTask)
			r.Put("/", tasks.UpdateTask)
			r.Delete("/", tasks.DeleteTask)
			r.Get("/tags", tasks.GetTags)
			r.Put("/tags", tasks.ReplaceTags)
			r.Put("/priority", tasks.SetPriority)
		})
	})
}
