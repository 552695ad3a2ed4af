package response

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/waste-orders/internal/models"
)

func TestResponses_JSONShape(t *testing.T) {
	tests := []struct {
		name string
		body any
		want string
	}{
		{
			name: "error",
			body: Error("Order not found"),
			want: `{"error":"Order not found"}`,
		},
		{
			name: "created",
			body: Created(42, 7),
			want: `{"success":true,"order_id":42,"user_id":7,"message":"Order created successfully"}`,
		},
		{
			name: "updated",
			body: Updated(),
			want: `{"success":true,"message":"Order updated successfully"}`,
		},
		{
			name: "empty orders list",
			body: OrdersResponse{Orders: []models.UserOrder{}},
			want: `{"orders":[]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.body)
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(data))
		})
	}
}
