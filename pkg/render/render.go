// Package render turns animation tasks into output media. The renderer is a
// stand-in for a face-synthesis model: it republishes the driving clip under
// the task's output path.
package render

import (
	"context"
	"errors"
	"fmt"

	"face-animation/pkg/logger"
	"face-animation/pkg/queue"
	"face-animation/pkg/s3"
)

const ContentType = "video/mp4"

// Store is the part of the object store the renderer needs.
type Store interface {
	CopyFile(ctx context.Context, srcKey, dstKey, contentType string) error
}

// ExpressionClip is where the driving clip of a named expression is stored.
func ExpressionClip(name string) string {
	return fmt.Sprintf("expressions/%s.mp4", name)
}

type Renderer struct {
	store  Store
	logger *logger.Logger
}

func NewRenderer(store Store, log *logger.Logger) *Renderer {
	return &Renderer{store: store, logger: log}
}

// DrivingMedia returns the storage key of the clip that drives task.
func DrivingMedia(task queue.AnimationTask) (string, error) {
	switch task.Type {
	case queue.TaskTypeExpression:
		if task.Expression == "" {
			return "", fmt.Errorf("animation %s: expression task without expression", task.AnimationID)
		}
		return ExpressionClip(task.Expression), nil
	case queue.TaskTypeCustom:
		if task.DrivingVideo == "" {
			return "", fmt.Errorf("animation %s: custom task without driving video", task.AnimationID)
		}
		return task.DrivingVideo, nil
	default:
		return "", fmt.Errorf("animation %s: unknown task type %q", task.AnimationID, task.Type)
	}
}

func (r *Renderer) Render(ctx context.Context, task queue.AnimationTask) error {
	src, err := DrivingMedia(task)
	if err != nil {
		return err
	}
	if task.OutputPath == "" {
		return fmt.Errorf("animation %s: missing output path", task.AnimationID)
	}

	if err := r.store.CopyFile(ctx, src, task.OutputPath, ContentType); err != nil {
		if errors.Is(err, s3.ErrNotFound) {
			return fmt.Errorf("animation %s: driving clip %s does not exist", task.AnimationID, src)
		}
		return err
	}

	r.logger.Info("Rendered animation %s from %s to %s", task.AnimationID, src, task.OutputPath)
	return nil
}
