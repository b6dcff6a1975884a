package repository

import (
	"context"
	"time"

	"github.com/jhoicas/jobcards-api/internal/domain/entity"
)

// SessionStore guarda sesiones activas con vencimiento.
// Get devuelve (nil, nil) si la sesión no existe o ya venció.
type SessionStore interface {
	Save(ctx context.Context, session *entity.Session, ttl time.Duration) error
	Get(ctx context.Context, id string) (*entity.Session, error)
	// Delete es idempotente: borrar una sesión inexistente no es error.
	Delete(ctx context.Context, id string) error
}
