package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/msalah0e/ecomap/internal/dataset"
	"github.com/msalah0e/ecomap/internal/graph"
	"github.com/msalah0e/ecomap/internal/session"
)

func (s *Server) handleIndex(c echo.Context) error {
	page, err := renderShell(shellData{
		Title:      s.opts.Title,
		Compact:    s.opts.Compact,
		Archetypes: dataset.Archetypes,
	})
	if err != nil {
		return fmt.Errorf("render shell: %w", err)
	}
	return c.HTML(http.StatusOK, page)
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"status":   "ok",
		"sessions": s.sessions.Count(),
		"nodes":    len(s.doc.Nodes),
		"links":    len(s.doc.Links),
	})
}

func (s *Server) handleArchetypes(c echo.Context) error {
	return c.JSON(http.StatusOK, dataset.Archetypes)
}

func (s *Server) handleNode(c echo.Context) error {
	d, err := graph.BuildDetail(s.doc, c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}
	return c.JSON(http.StatusOK, d)
}

type createResponse struct {
	ID    string        `json:"id"`
	Frame session.Frame `json:"frame"`
}

func (s *Server) handleCreateSession(c echo.Context) error {
	var req CreateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid session request")
	}
	id, frame, err := s.sessions.Create(req)
	if err != nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, err.Error())
	}
	return c.JSON(http.StatusCreated, createResponse{ID: id, Frame: frame})
}

func (s *Server) handleEvent(c echo.Context) error {
	var ev session.Event
	if err := c.Bind(&ev); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid event")
	}
	if !ev.Type.Valid() {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("unknown event type: %q", ev.Type))
	}

	err := s.sessions.Post(c.Param("id"), ev)
	switch {
	case err == nil:
		return c.NoContent(http.StatusAccepted)
	case errors.Is(err, ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, ErrRateLimited), errors.Is(err, ErrQueueFull):
		c.Response().Header().Set("Retry-After", "1")
		return echo.NewHTTPError(http.StatusTooManyRequests, err.Error())
	default:
		return err
	}
}

func (s *Server) handleDeleteSession(c echo.Context) error {
	if err := s.sessions.Remove(c.Param("id")); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

// handleStream writes the session's frames as server-sent events until the
// client goes away or the session is removed.
func (s *Server) handleStream(c echo.Context) error {
	frames, release, err := s.sessions.Attach(c.Param("id"))
	switch {
	case errors.Is(err, ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, ErrStreaming):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, ErrQueueFull):
		c.Response().Header().Set("Retry-After", "1")
		return echo.NewHTTPError(http.StatusTooManyRequests, err.Error())
	case err != nil:
		return err
	}
	defer release()

	w := c.Response()
	w.Header().Set(echo.HeaderContentType, "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	w.Flush()

	heartbeat := time.NewTicker(s.opts.Heartbeat)
	defer heartbeat.Stop()

	// Frames buffered before the stream attached diff against scenes this
	// client never saw; skip ahead to the full frame Attach asked for.
	synced := false
	ctx := c.Request().Context()
	for {
		select {
		case <-ctx.Done():
			return nil
		case f, ok := <-frames:
			if !ok {
				fmt.Fprint(w, "event: closed\ndata: {}\n\n")
				w.Flush()
				return nil
			}
			if !synced && !f.Full {
				continue
			}
			synced = true
			if err := writeFrame(w, f); err != nil {
				return nil
			}
		case <-heartbeat.C:
			if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
				return nil
			}
			w.Flush()
		}
	}
}

func writeFrame(w *echo.Response, f session.Frame) error {
	data, err := json.Marshal(f)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "id: %d\nevent: frame\ndata: %s\n\n", f.Seq, data); err != nil {
		return err
	}
	w.Flush()
	return nil
}
