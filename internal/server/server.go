package server

import (
	"fmt"
	"net/http"
	"sort"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/mdouchement/foundtag/internal/database"
	"github.com/mdouchement/foundtag/internal/enhancer"
	"github.com/mdouchement/foundtag/internal/notify"
	"github.com/mdouchement/foundtag/internal/qrlink"
	"github.com/mdouchement/foundtag/internal/server/middlewares"
)

// An IOC is an Iversion Of Control pattern used to init the server package.
type IOC struct {
	Version  string
	Database database.Client
	Enhancer enhancer.Enhancer
	Encoder  *qrlink.Encoder
	Notifier notify.Notifier
	// BaseURL is the public URL encoded in the generated QR codes.
	BaseURL string
}

// EchoEngine instantiates the wep server.
func EchoEngine(ctrl IOC) *echo.Echo {
	engine := echo.New()
	engine.Use(middleware.Recover())
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORSWithConfig(middleware.DefaultCORSConfig))
	engine.Use(middleware.Gzip())

	engine.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "[${status}] ${method} ${uri} (${bytes_in}) ${latency_human}\n",
	}))
	engine.Binder = middlewares.NewBinder()
	// Error handler
	engine.HTTPErrorHandler = middlewares.HTTPErrorHandler

	engine.Pre(middleware.Rewrite(map[string]string{
		"/": "/version",
	}))

	////////////
	// Router //
	////////////

	router := engine.Group("")

	// generic handlers
	//
	router.GET("/version", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{
			"version": ctrl.Version,
		})
	})

	//
	// item handlers
	//
	item := &item{
		db:       ctrl.Database,
		enhancer: ctrl.Enhancer,
		encoder:  ctrl.Encoder,
		notifier: ctrl.Notifier,
		baseURL:  ctrl.BaseURL,
	}
	router.POST("/register", item.Register)
	router.GET("/item/:id", item.Show)
	router.POST("/contact/:id", item.Contact)
	router.POST("/item/:id/qrcode", item.RegenerateQRCode)

	// code assets
	//
	engine.Static("/qrcodes", ctrl.Encoder.Dir())

	return engine
}

// PrintRoutes prints the Echo engin exposed routes.
func PrintRoutes(e *echo.Echo) {
	ignored := map[string]bool{
		"":   true,
		".":  true,
		"/*": true,
	}

	routes := e.Routes()
	sort.Slice(routes, func(i int, j int) bool {
		return routes[i].Path < routes[j].Path
	})

	fmt.Println("Routes:")
	for _, route := range routes {
		if ignored[route.Path] {
			continue
		}
		fmt.Printf("%6s %s\n", route.Method, route.Path)
	}
}
