package orders

import "github.com/verdemart/verdemart-backend/pkg/enums"

// Stage is one step of the storefront's fulfillment bar.
type Stage struct {
	Label   string `json:"label"`
	Reached bool   `json:"reached"`
}

// Progress is the projected fulfillment state the storefront renders.
type Progress struct {
	Percent int     `json:"percent"`
	Stages  []Stage `json:"stages"`
}

// stageLabels are the storefront's fulfillment steps, in order.
var stageLabels = [4]string{
	"Pedido realizado",
	"En Proceso",
	"Enviado",
	"Entregado",
}

// stageRank maps each forward-moving status onto how many stages it has
// reached. Terminal exception statuses are absent on purpose; they project to
// zero progress with nothing highlighted.
var stageRank = map[enums.OrderStatus]int{
	enums.OrderStatusPending:   1,
	enums.OrderStatusPacked:    2,
	enums.OrderStatusShipped:   3,
	enums.OrderStatusCompleted: 4,
}

// ProjectProgress converts an order status into the rendered progress bar.
func ProjectProgress(status enums.OrderStatus) Progress {
	rank := stageRank[status]

	stages := make([]Stage, 0, len(stageLabels))
	for i, label := range stageLabels {
		stages = append(stages, Stage{
			Label:   label,
			Reached: i < rank,
		})
	}
	return Progress{
		Percent: rank * 25,
		Stages:  stages,
	}
}
