package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"face-animation/pkg/cache"
	"face-animation/pkg/logger"
	"face-animation/pkg/models"
	"face-animation/pkg/queue"
	"face-animation/services/animator/internal/repo/persistent"
)

// Renderer produces the output media of a task. *render.Renderer implements it.
type Renderer interface {
	Render(ctx context.Context, task queue.AnimationTask) error
}

// StatusNotifier tells the owner of an animation that its render finished.
// *cache.StatusFeed implements it.
type StatusNotifier interface {
	Publish(ctx context.Context, userID string, event cache.StatusEvent) error
}

type RenderUseCase interface {
	// HandleTask renders one task. A returned error asks the queue to redeliver.
	HandleTask(ctx context.Context, task queue.AnimationTask) error
}

type renderUseCase struct {
	animationRepo persistent.AnimationRepository
	renderer      Renderer
	notifier      StatusNotifier
	timeout       time.Duration
	logger        *logger.Logger
}

func NewRenderUseCase(
	animationRepo persistent.AnimationRepository,
	renderer Renderer,
	notifier StatusNotifier,
	timeout time.Duration,
	logger *logger.Logger,
) RenderUseCase {
	return &renderUseCase{
		animationRepo: animationRepo,
		renderer:      renderer,
		notifier:      notifier,
		timeout:       timeout,
		logger:        logger,
	}
}

func (uc *renderUseCase) HandleTask(ctx context.Context, task queue.AnimationTask) error {
	if task.AnimationID == "" {
		uc.logger.Warn("[ANIMATOR] Dropping task without animation id: %+v", task)
		return nil
	}

	status, err := uc.animationRepo.GetStatus(task.AnimationID)
	if errors.Is(err, persistent.ErrNotFound) {
		// Discarded while queued.
		uc.logger.Info("[ANIMATOR] Animation %s no longer exists, skipping", task.AnimationID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load animation %s: %w", task.AnimationID, err)
	}
	if status == models.AnimationCompleted {
		uc.logger.Info("[ANIMATOR] Animation %s already rendered, skipping", task.AnimationID)
		return nil
	}

	renderCtx := ctx
	if uc.timeout > 0 {
		var cancel context.CancelFunc
		renderCtx, cancel = context.WithTimeout(ctx, uc.timeout)
		defer cancel()
	}

	started := time.Now()
	next := models.AnimationCompleted
	if err := uc.renderer.Render(renderCtx, task); err != nil {
		uc.logger.Error("[ANIMATOR] Render failed for animation %s: %v", task.AnimationID, err)
		next = models.AnimationFailed
	}

	if err := uc.animationRepo.UpdateStatus(task.AnimationID, next); err != nil {
		if errors.Is(err, persistent.ErrNotFound) {
			uc.logger.Info("[ANIMATOR] Animation %s was discarded during rendering", task.AnimationID)
			return nil
		}
		return fmt.Errorf("failed to update animation %s: %w", task.AnimationID, err)
	}

	uc.logger.Info("[ANIMATOR] Animation %s %s in %s (queued %s ago, priority %d)",
		task.AnimationID, next, time.Since(started).Round(time.Millisecond),
		started.Sub(task.CreatedAt).Round(time.Second), task.Priority)

	uc.notify(ctx, task, next)
	return nil
}

// notify is best effort; the status is already stored.
func (uc *renderUseCase) notify(ctx context.Context, task queue.AnimationTask, status models.AnimationStatus) {
	if uc.notifier == nil || task.UserID == "" {
		return
	}
	event := cache.StatusEvent{AnimationID: task.AnimationID, Status: string(status), At: time.Now()}
	if err := uc.notifier.Publish(ctx, task.UserID, event); err != nil {
		uc.logger.Warn("[ANIMATOR] Failed to publish status of animation %s: %v", task.AnimationID, err)
	}
}
