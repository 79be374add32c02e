package api

import (
	"bytes"
	"image/jpeg"
	"net/http"
	"os"
	"path"
	"sync"

	"github.com/annotatex/annotatex/pkg/app"
	"github.com/annotatex/annotatex/pkg/export"
	"github.com/annotatex/annotatex/pkg/video"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

type pointRequest struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type boxView struct {
	Class string  `json:"class"`
	Color string  `json:"color"`
	X1    float64 `json:"x1"`
	Y1    float64 `json:"y1"`
	X2    float64 `json:"x2"`
	Y2    float64 `json:"y2"`
}

// SetRouter wires the collaborator boundary: the UI layer drives the core
// through these routes and polls /api/State after each mutating call. The
// app instance carries no locking of its own, so requests are serialized
// here; each handler holds the group mutex for its full duration.
func SetRouter(a *app.App, log zerolog.Logger) *gin.Engine {
	r := gin.Default()

	var mu sync.Mutex
	apiRoutes := r.Group("/api")
	apiRoutes.Use(func(ctx *gin.Context) {
		mu.Lock()
		defer mu.Unlock()
		ctx.Next()
	})

	apiRoutes.POST("/Open", func(ctx *gin.Context) {
		var req struct {
			Path string `json:"path"`
		}
		if err := ctx.BindJSON(&req); err != nil || req.Path == "" {
			ctx.Status(http.StatusNotAcceptable)
			return
		}
		src, err := video.Open(req.Path)
		if err != nil {
			log.Error().Err(err).Str("path", req.Path).Msg("could not open video")
			ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		a.SetSource(src, path.Base(req.Path))
		ctx.JSON(http.StatusOK, a.Snapshot())
	})

	apiRoutes.GET("/State", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, a.Snapshot())
	})

	apiRoutes.GET("/Boxes", func(ctx *gin.Context) {
		boxes := a.Boxes()
		views := make([]boxView, 0, len(boxes))
		for _, b := range boxes {
			views = append(views, boxView{
				Class: b.Class,
				Color: a.Registry().HexColorFor(b.Class),
				X1:    b.X1,
				Y1:    b.Y1,
				X2:    b.X2,
				Y2:    b.Y2,
			})
		}
		ctx.JSON(http.StatusOK, views)
	})

	apiRoutes.GET("/Frame/Image", func(ctx *gin.Context) {
		img, err := a.FrameImage()
		if err != nil {
			ctx.Status(http.StatusNotFound)
			return
		}
		var buf bytes.Buffer
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 85}); err != nil {
			ctx.Status(http.StatusInternalServerError)
			return
		}
		ctx.Data(http.StatusOK, "image/jpeg", buf.Bytes())
	})

	apiRoutes.POST("/Surface", func(ctx *gin.Context) {
		var req struct {
			Width  float64 `json:"width"`
			Height float64 `json:"height"`
		}
		if err := ctx.BindJSON(&req); err != nil {
			ctx.Status(http.StatusNotAcceptable)
			return
		}
		a.SetSurface(req.Width, req.Height)
		ctx.JSON(http.StatusOK, a.Snapshot())
	})

	apiRoutes.POST("/Pointer/Down", func(ctx *gin.Context) {
		var req pointRequest
		if err := ctx.BindJSON(&req); err != nil {
			ctx.Status(http.StatusNotAcceptable)
			return
		}
		a.PointerDown(req.X, req.Y)
		ctx.JSON(http.StatusOK, a.Snapshot())
	})

	apiRoutes.POST("/Pointer/Drag", func(ctx *gin.Context) {
		var req pointRequest
		if err := ctx.BindJSON(&req); err != nil {
			ctx.Status(http.StatusNotAcceptable)
			return
		}
		a.PointerDrag(req.X, req.Y)
		preview, drawing := a.Preview()
		ctx.JSON(http.StatusOK, gin.H{"preview": preview, "drawing": drawing, "state": a.Snapshot()})
	})

	apiRoutes.POST("/Pointer/Up", func(ctx *gin.Context) {
		var req pointRequest
		if err := ctx.BindJSON(&req); err != nil {
			ctx.Status(http.StatusNotAcceptable)
			return
		}
		a.PointerUp(req.X, req.Y)
		ctx.JSON(http.StatusOK, a.Snapshot())
	})

	apiRoutes.POST("/Pointer/Move", func(ctx *gin.Context) {
		var req pointRequest
		if err := ctx.BindJSON(&req); err != nil {
			ctx.Status(http.StatusNotAcceptable)
			return
		}
		ctx.JSON(http.StatusOK, gin.H{"cursor": a.CursorAt(req.X, req.Y)})
	})

	apiRoutes.POST("/Frame/Jump", func(ctx *gin.Context) {
		var req struct {
			Frame int `json:"frame"`
		}
		if err := ctx.BindJSON(&req); err != nil {
			ctx.Status(http.StatusNotAcceptable)
			return
		}
		a.JumpTo(req.Frame)
		ctx.JSON(http.StatusOK, a.Snapshot())
	})

	apiRoutes.POST("/Frame/Step", func(ctx *gin.Context) {
		var req struct {
			Delta int `json:"delta"`
		}
		if err := ctx.BindJSON(&req); err != nil {
			ctx.Status(http.StatusNotAcceptable)
			return
		}
		a.Step(req.Delta)
		ctx.JSON(http.StatusOK, a.Snapshot())
	})

	apiRoutes.POST("/Frame/First", func(ctx *gin.Context) {
		a.First()
		ctx.JSON(http.StatusOK, a.Snapshot())
	})

	apiRoutes.POST("/Frame/Last", func(ctx *gin.Context) {
		a.Last()
		ctx.JSON(http.StatusOK, a.Snapshot())
	})

	apiRoutes.POST("/Frame/SkipBack", func(ctx *gin.Context) {
		a.SkipBack()
		ctx.JSON(http.StatusOK, a.Snapshot())
	})

	apiRoutes.POST("/Frame/SkipForward", func(ctx *gin.Context) {
		a.SkipForward()
		ctx.JSON(http.StatusOK, a.Snapshot())
	})

	apiRoutes.POST("/Zoom/In", func(ctx *gin.Context) {
		a.Zoom(1)
		ctx.JSON(http.StatusOK, a.Snapshot())
	})

	apiRoutes.POST("/Zoom/Out", func(ctx *gin.Context) {
		a.Zoom(-1)
		ctx.JSON(http.StatusOK, a.Snapshot())
	})

	apiRoutes.POST("/Zoom/Reset", func(ctx *gin.Context) {
		a.ZoomReset()
		ctx.JSON(http.StatusOK, a.Snapshot())
	})

	apiRoutes.GET("/Classes", func(ctx *gin.Context) {
		query := ctx.Request.URL.Query().Get("query")
		names := a.Registry().Filter(query)
		out := make([]gin.H, 0, len(names))
		for _, name := range names {
			out = append(out, gin.H{"name": name, "color": a.Registry().HexColorFor(name)})
		}
		ctx.JSON(http.StatusOK, out)
	})

	apiRoutes.POST("/Classes", func(ctx *gin.Context) {
		var req struct {
			Name string `json:"name"`
		}
		if err := ctx.BindJSON(&req); err != nil {
			ctx.Status(http.StatusNotAcceptable)
			return
		}
		a.AddClass(req.Name)
		ctx.JSON(http.StatusOK, a.Snapshot())
	})

	apiRoutes.POST("/Classes/Select", func(ctx *gin.Context) {
		var req struct {
			Name string `json:"name"`
		}
		if err := ctx.BindJSON(&req); err != nil {
			ctx.Status(http.StatusNotAcceptable)
			return
		}
		a.SelectClass(req.Name)
		ctx.JSON(http.StatusOK, a.Snapshot())
	})

	apiRoutes.POST("/Classes/SelectIndex", func(ctx *gin.Context) {
		var req struct {
			Index int `json:"index"`
		}
		if err := ctx.BindJSON(&req); err != nil {
			ctx.Status(http.StatusNotAcceptable)
			return
		}
		a.SelectClassByIndex(req.Index)
		ctx.JSON(http.StatusOK, a.Snapshot())
	})

	apiRoutes.POST("/Deselect", func(ctx *gin.Context) {
		a.Deselect()
		ctx.JSON(http.StatusOK, a.Snapshot())
	})

	apiRoutes.POST("/Delete", func(ctx *gin.Context) {
		a.DeleteSelected()
		ctx.JSON(http.StatusOK, a.Snapshot())
	})

	apiRoutes.POST("/Undo", func(ctx *gin.Context) {
		a.Undo()
		ctx.JSON(http.StatusOK, a.Snapshot())
	})

	apiRoutes.POST("/CopyPrevious", func(ctx *gin.Context) {
		a.CopyPrevious()
		ctx.JSON(http.StatusOK, a.Snapshot())
	})

	apiRoutes.POST("/Clear", func(ctx *gin.Context) {
		a.ClearFrame()
		ctx.JSON(http.StatusOK, a.Snapshot())
	})

	apiRoutes.POST("/Display", func(ctx *gin.Context) {
		var req struct {
			ShowLabels *bool `json:"show_labels"`
			ShowBoxes  *bool `json:"show_boxes"`
		}
		if err := ctx.BindJSON(&req); err != nil {
			ctx.Status(http.StatusNotAcceptable)
			return
		}
		if req.ShowLabels != nil {
			a.SetShowLabels(*req.ShowLabels)
		}
		if req.ShowBoxes != nil {
			a.SetShowBoxes(*req.ShowBoxes)
		}
		ctx.JSON(http.StatusOK, a.Snapshot())
	})

	apiRoutes.POST("/Export", func(ctx *gin.Context) {
		var req struct {
			Dir    string `json:"dir"`
			Name   string `json:"name"`
			Format string `json:"format"`
		}
		if err := ctx.BindJSON(&req); err != nil || req.Dir == "" || req.Name == "" {
			ctx.Status(http.StatusNotAcceptable)
			return
		}
		if _, err := os.Stat(req.Dir); err != nil {
			ctx.JSON(http.StatusNotAcceptable, gin.H{"error": "destination directory does not exist"})
			return
		}
		if err := a.Export(export.Format(req.Format), req.Dir, req.Name); err != nil {
			ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error(), "state": a.Snapshot()})
			return
		}
		ctx.JSON(http.StatusOK, a.Snapshot())
	})

	return r
}
