package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// ListOrders returns one fulfilment segment as the server sent it. The
// station only relays these screens, so the body is passed through
// unparsed.
func (c *Client) ListOrders(ctx context.Context, token string, segment OrderSegment) (json.RawMessage, error) {
	switch segment {
	case SegmentPacking, SegmentDispatch, SegmentDelivery, SegmentAll:
	default:
		return nil, fmt.Errorf("unknown order segment %q", segment)
	}
	raw, _, err := c.do(ctx, http.MethodGet, "/orders/pos/"+string(segment), token, nil, nil)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(raw), nil
}

// UpdateOrderState advances one order through the fulfilment flow.
func (c *Client) UpdateOrderState(ctx context.Context, token, orderID string, action OrderAction) (json.RawMessage, error) {
	switch action {
	case ActionMarkPacked, ActionMarkDispatched, ActionMarkDelivered, ActionMarkPaid:
	default:
		return nil, fmt.Errorf("unknown order action %q", action)
	}
	raw, _, err := c.do(ctx, http.MethodPut, "/orders/pos/"+orderID+"/"+string(action), token, nil, nil)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(raw), nil
}
