package checkout

import (
	"context"
	"errors"
	"strings"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/MichelSalibaa/ZiadSupplies/internal/cart"
	"github.com/MichelSalibaa/ZiadSupplies/internal/client"
	"github.com/MichelSalibaa/ZiadSupplies/internal/domain"
)

// State of the checkout lifecycle: Idle → Submitting → {Success, Failed},
// returning to Idle once the terminal outcome has been produced. There is no
// automatic retry; the customer resubmits.
type State string

const (
	StateIdle       State = "idle"
	StateSubmitting State = "submitting"
	StateSuccess    State = "success"
	StateFailed     State = "failed"
)

const (
	// EmptyCartMessage is surfaced without any network call.
	EmptyCartMessage = "Please add at least one item to your cart."
	// GenericFailure covers failures that carry no usable message.
	GenericFailure = "Checkout failed."
	// DefaultConfirmation is used when a success response has no message.
	DefaultConfirmation = "Your order has been received! We'll confirm delivery details shortly via email."
	// InFlightMessage answers a submission attempted while one is running.
	// Duplicate COD orders are a real business risk, so the second attempt
	// is refused rather than raced.
	InFlightMessage = "Your order is already being submitted."
)

// Form carries the raw checkout contact fields. Values are trimmed here;
// absent fields stay empty, validation belongs to the server.
type Form struct {
	CustomerName string
	Email        string
	Phone        string
	Address      string
}

// Outcome is what the message region shows for the latest attempt.
type Outcome struct {
	State   State
	Message string
}

// Coordinator serializes the cart and form into an order request, manages the
// submission lifecycle, and reconciles the response into an outcome plus cart
// state. Only one submission may be in flight at a time.
type Coordinator struct {
	mu    sync.Mutex
	state State

	client client.StorefrontClient
	cart   *cart.Store
}

func NewCoordinator(storefront client.StorefrontClient, cartStore *cart.Store) *Coordinator {
	return &Coordinator{
		state:  StateIdle,
		client: storefront,
		cart:   cartStore,
	}
}

// State reports the current lifecycle state.
func (c *Coordinator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Submit runs one checkout attempt end to end. On success the cart is cleared
// wholesale; on failure it is preserved so the customer can retry.
func (c *Coordinator) Submit(ctx context.Context, form Form) Outcome {
	c.mu.Lock()
	if c.state == StateSubmitting {
		c.mu.Unlock()
		return Outcome{State: StateSubmitting, Message: InFlightMessage}
	}
	c.state = StateSubmitting
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.state = StateIdle
		c.mu.Unlock()
	}()

	items := c.cart.Items()
	if len(items) == 0 {
		return Outcome{State: StateFailed, Message: EmptyCartMessage}
	}

	order := domain.OrderRequest{
		CustomerName: strings.TrimSpace(form.CustomerName),
		Email:        strings.TrimSpace(form.Email),
		Phone:        strings.TrimSpace(form.Phone),
		Address:      strings.TrimSpace(form.Address),
		Items:        items,
	}

	resp, err := c.client.SubmitOrder(ctx, order)
	if err != nil {
		message := GenericFailure
		var subErr *domain.OrderSubmissionError
		if errors.As(err, &subErr) && (subErr.Message != "" || subErr.Err != nil) {
			message = subErr.Error()
		}
		log.Warnf("Checkout failed: %v", err)
		return Outcome{State: StateFailed, Message: message}
	}

	message := resp.Message
	if message == "" {
		message = DefaultConfirmation
	}

	c.cart.Clear()
	return Outcome{State: StateSuccess, Message: message}
}
