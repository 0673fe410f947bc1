package audit

import (
	"context"
	"log"
	"time"

	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/usecase"
)

// Recorder grava trilha de auditoria em fire-and-forget: a escrita roda em
// goroutine própria, depois do commit da mutação. Falha é logada e nunca
// chega ao chamador.
type Recorder struct {
	Repo    usecase.AuditLogRepository
	timeout time.Duration
}

func NewRecorder(repo usecase.AuditLogRepository) *Recorder {
	return &Recorder{Repo: repo, timeout: 5 * time.Second}
}

func (r *Recorder) Record(userID *string, action, resource, resourceID string, meta map[string]any) {
	entry := entity.NewAuditLog(userID, action, resource, resourceID, meta)

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
		defer cancel()

		if err := r.Repo.Create(ctx, entry); err != nil {
			log.Printf("audit: falha ao gravar %s (%s/%s): %v", action, resource, resourceID, err)
		}
	}()
}
