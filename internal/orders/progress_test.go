package orders

import (
	"testing"

	"github.com/verdemart/verdemart-backend/pkg/enums"
)

func TestProjectProgressShipped(t *testing.T) {
	progress := ProjectProgress(enums.OrderStatusShipped)

	if progress.Percent != 75 {
		t.Fatalf("expected 75%%, got %d", progress.Percent)
	}
	reached := map[string]bool{}
	for _, stage := range progress.Stages {
		reached[stage.Label] = stage.Reached
	}
	for _, label := range []string{"Pedido realizado", "En Proceso", "Enviado"} {
		if !reached[label] {
			t.Fatalf("expected stage %q reached", label)
		}
	}
	if reached["Entregado"] {
		t.Fatal("Entregado must not be reached while shipped")
	}
}

func TestProjectProgressCompleted(t *testing.T) {
	progress := ProjectProgress(enums.OrderStatusCompleted)

	if progress.Percent != 100 {
		t.Fatalf("expected 100%%, got %d", progress.Percent)
	}
	for _, stage := range progress.Stages {
		if !stage.Reached {
			t.Fatalf("expected stage %q reached", stage.Label)
		}
	}
}

func TestProjectProgressExceptionStatuses(t *testing.T) {
	for _, status := range []enums.OrderStatus{
		enums.OrderStatusCancelled,
		enums.OrderStatusRefunded,
		enums.OrderStatusDisputed,
	} {
		progress := ProjectProgress(status)
		if progress.Percent != 0 {
			t.Fatalf("status %s: expected 0%%, got %d", status, progress.Percent)
		}
		for _, stage := range progress.Stages {
			if stage.Reached {
				t.Fatalf("status %s: no stage may be highlighted", status)
			}
		}
		if len(progress.Stages) != 4 {
			t.Fatalf("status %s: expected all 4 stages rendered, got %d", status, len(progress.Stages))
		}
	}
}
