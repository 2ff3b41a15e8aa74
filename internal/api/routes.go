package api

import (
	"net/http"

	restfulspec "github.com/emicklei/go-restful-openapi/v2"
	"github.com/emicklei/go-restful/v3"
	"github.com/go-openapi/spec"
	"github.com/povarna/generative-ai-agents/chat-assistant/internal/api/middleware"
	"github.com/povarna/generative-ai-agents/chat-assistant/internal/models"
)

const OpenAPIPath = "/api/openapi.json"

func init() {
	// Entities of routes that accept a missing Content-Type are read as JSON.
	restful.DefaultRequestContentType(restful.MIME_JSON)
}

// NewContainer wires routes, filters, the OpenAPI document and, when
// staticDir is set, the static file mount at "/".
func NewContainer(handler *Handler, staticDir string) *restful.Container {
	container := restful.NewContainer()

	container.Filter(middleware.Logger)
	container.Filter(middleware.RecoverPanic)

	RegisterRoutes(container, handler)

	container.Add(restfulspec.NewOpenAPIService(restfulspec.Config{
		WebServices:                   container.RegisteredWebServices(),
		APIPath:                       OpenAPIPath,
		PostBuildSwaggerObjectHandler: enrichSwaggerObject,
	}))

	if staticDir != "" {
		container.Handle("/", http.FileServer(http.Dir(staticDir)))
	}

	return container
}

func RegisterRoutes(container *restful.Container, handler *Handler) {
	ws := new(restful.WebService)

	ws.
		Path("/api").
		Consumes(restful.MIME_JSON).
		Produces(restful.MIME_JSON)

	// Health endpoint
	ws.
		Route(ws.GET("/health").
			To(handler.Health).
			Doc("Health check").
			Metadata(restfulspec.KeyOpenAPITags, []string{"health"}).
			Writes(HealthResponse{}).
			Returns(200, "OK", HealthResponse{}))

	ws.
		Route(ws.POST("/chat").
			To(handler.Chat).
			AllowedMethodsWithoutContentType([]string{http.MethodPost}).
			Doc("Send a chat message and receive the assistant reply").
			Metadata(restfulspec.KeyOpenAPITags, []string{"chat"}).
			Reads(models.ChatRequest{}).
			Writes(models.ChatResponse{}).
			Returns(200, "OK", models.ChatResponse{}).
			Returns(400, "Bad Request", middleware.ErrorResponse{}).
			Returns(500, "Internal Server Error", middleware.ErrorResponse{}))

	container.Add(ws)
}

func enrichSwaggerObject(swo *spec.Swagger) {
	swo.Info = &spec.Info{
		InfoProps: spec.InfoProps{
			Title:       "AI Chatbot Assistant",
			Description: "Single-turn chat backed by a hosted completion model, with a local fallback",
			Version:     "1.0.0",
		},
	}
	swo.Tags = []spec.Tag{
		{TagProps: spec.TagProps{Name: "health", Description: "Health checks"}},
		{TagProps: spec.TagProps{Name: "chat", Description: "Chat operations"}},
	}
}
