package commands_test

import (
	"testing"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/domain/services"

	"github.com/stretchr/testify/require"
)

func draftSteps(t *testing.T) []services.DraftStep {
	t.Helper()
	pickupPoint, err := kernel.NewGeoPoint(52.52, 13.40)
	require.NoError(t, err)
	deliveryPoint, err := kernel.NewGeoPoint(52.53, 13.41)
	require.NoError(t, err)

	return []services.DraftStep{{
		Linked: true,
		Stops: []services.DraftStop{
			{
				Address: order.Address{Label: "Warehouse", Point: &pickupPoint},
				Actions: []services.DraftAction{{
					Kind:     order.ActionKindPickup,
					Quantity: 1,
					Item: &services.DraftItem{
						LocalID:    "widget",
						Name:       "Widget",
						Packaging:  order.PackagingBox,
						WeightKg:   1.2,
						VolumeM3:   0.01,
						Dimensions: order.Dimensions{LengthCm: 20, WidthCm: 10, HeightCm: 5},
					},
				}},
			},
			{
				Address: order.Address{Label: "Customer", Point: &deliveryPoint},
				Actions: []services.DraftAction{{
					Kind:     order.ActionKindDelivery,
					Quantity: 1,
					ItemRef:  "widget",
				}},
			},
		},
	}}
}

// acceptedOrder builds an order already in the hands of a driver.
func acceptedOrder(t *testing.T) *order.Order {
	t.Helper()
	aggregate, err := services.NewDraftBuilder().Build(services.DraftInput{
		OrderID: kernel.NewUUID(),
		Steps:   draftSteps(t),
	})
	require.NoError(t, err)
	require.NoError(t, aggregate.Submit())
	require.NoError(t, aggregate.Accept(kernel.NewUUID()))
	return aggregate
}
