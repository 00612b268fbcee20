package contracts

import "github.com/julienschmidt/httprouter"

// Handler is what the application shell mounts.
type Handler interface {
	RegisterRoutes(*httprouter.Router)
}
