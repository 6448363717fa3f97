package suite

import (
	"context"
	"fmt"
	nethttp "net/http"
	"strconv"

	"github.com/abdul-hamid-achik/rentalsmoke/packages/assertions"
	"github.com/abdul-hamid-achik/rentalsmoke/packages/capture"
	"github.com/abdul-hamid-achik/rentalsmoke/packages/core/runner"
	"github.com/abdul-hamid-achik/rentalsmoke/packages/core/session"
	"github.com/abdul-hamid-achik/rentalsmoke/packages/http"
)

func (s *Suite) healthCheck(ctx context.Context, _ *session.Session) runner.Outcome {
	req := http.NewRequest(nethttp.MethodGet, s.baseURL+"/health").SetTimeout(s.healthTimeout)
	resp, err := s.client.Do(ctx, req)
	if err != nil {
		return runner.Errored(err)
	}

	details := fmt.Sprintf("Status: %d", resp.StatusCode)
	ev := assertions.NewEvaluator(resp)
	if assertions.FirstFailure(ev.StatusIn(nethttp.StatusOK), ev.BodyContains("OK")) != nil {
		return runner.Failed(resp, details)
	}
	return runner.Passed(resp, details, nil)
}

func (s *Suite) register(payload RegisterPayload, tokenKey, idKey session.Key) runner.StepFunc {
	return func(ctx context.Context, _ *session.Session) runner.Outcome {
		resp, err := s.send(ctx, nethttp.MethodPost, s.api("/auth/register"), "", payload)
		if err != nil {
			return runner.Errored(err)
		}

		ev := assertions.NewEvaluator(resp)
		if assertions.FirstFailure(
			ev.StatusIn(nethttp.StatusCreated),
			ev.Exists("data.accessToken"),
			ev.Exists("data.user.id"),
		) != nil {
			return runner.Failed(resp, resp.CompactBody())
		}

		values := capture.ExtractAll(resp, map[string]string{
			"token": "data.accessToken",
			"id":    "data.user.id",
		})
		return runner.Passed(resp,
			fmt.Sprintf("ID: %s, Email: %s", values["id"], payload.Email),
			session.Outputs{tokenKey: values["token"], idKey: values["id"]},
		)
	}
}

func (s *Suite) createProduct(ctx context.Context, st *session.Session) runner.Outcome {
	resp, err := s.send(ctx, nethttp.MethodPost, s.api("/products"), st.String(session.VendorToken), s.fixture.Product)
	if err != nil {
		return runner.Errored(err)
	}

	ev := assertions.NewEvaluator(resp)
	if assertions.FirstFailure(
		ev.StatusIn(nethttp.StatusCreated),
		ev.Exists("data.id"),
		ev.Exists("data.variants.0.id"),
	) != nil {
		return runner.Failed(resp, resp.CompactBody())
	}

	ext := capture.NewExtractor(resp)
	productID, _ := ext.String("data.id")
	variantID, _ := ext.String("data.variants.0.id")
	variants, _ := ext.Count("data.variants")

	return runner.Passed(resp,
		fmt.Sprintf("Product ID: %s, Variants: %d", productID, variants),
		session.Outputs{session.ProductID: productID, session.VariantID: variantID},
	)
}

func (s *Suite) listProducts(ctx context.Context, _ *session.Session) runner.Outcome {
	resp, err := s.send(ctx, nethttp.MethodGet, s.api("/products"), "", nil)
	if err != nil {
		return runner.Errored(err)
	}

	ev := assertions.NewEvaluator(resp)
	found := ev.IsArray("data.products")
	if assertions.FirstFailure(ev.StatusIn(nethttp.StatusOK), found) != nil {
		return runner.Failed(resp, resp.CompactBody())
	}
	return runner.Passed(resp, fmt.Sprintf("Found %d products", found.Actual), nil)
}

func (s *Suite) getProduct(ctx context.Context, st *session.Session) runner.Outcome {
	resp, err := s.send(ctx, nethttp.MethodGet, s.api("/products", st.String(session.ProductID)), "", nil)
	if err != nil {
		return runner.Errored(err)
	}

	ev := assertions.NewEvaluator(resp)
	if assertions.FirstFailure(ev.StatusIn(nethttp.StatusOK), ev.Exists("data.name")) != nil {
		return runner.Failed(resp, resp.CompactBody())
	}

	name, _ := capture.NewExtractor(resp).String("data.name")
	return runner.Passed(resp, "Name: "+name, nil)
}

func (s *Suite) updateProduct(ctx context.Context, st *session.Session) runner.Outcome {
	target := s.api("/products", st.String(session.ProductID))
	resp, err := s.send(ctx, nethttp.MethodPut, target, st.String(session.VendorToken), s.fixture.Update)
	if err != nil {
		return runner.Errored(err)
	}

	if !assertions.NewEvaluator(resp).StatusIn(nethttp.StatusOK, nethttp.StatusCreated).Passed {
		return runner.Failed(resp, resp.CompactBody())
	}
	return runner.Passed(resp, "Product updated", nil)
}

// customerCannotCreateProduct accepts either a 403 or an error key in the
// body, whatever its value, as a rejection. A 201 is never a rejection.
func (s *Suite) customerCannotCreateProduct(ctx context.Context, st *session.Session) runner.Outcome {
	resp, err := s.send(ctx, nethttp.MethodPost, s.api("/products"), st.String(session.CustomerToken), s.fixture.Product)
	if err != nil {
		return runner.Errored(err)
	}

	ev := assertions.NewEvaluator(resp)
	rejected := assertions.AnyOf(ev.StatusIn(nethttp.StatusForbidden), ev.HasKey("error"))
	if resp.StatusCode == nethttp.StatusCreated || !rejected.Passed {
		return runner.Failed(resp, fmt.Sprintf("Status: %d, Body: %s", resp.StatusCode, resp.CompactBody()))
	}
	return runner.Passed(resp, "Correctly rejected", nil)
}

func (s *Suite) checkAvailability(ctx context.Context, st *session.Session) runner.Outcome {
	req := http.NewRequest(nethttp.MethodGet, s.api("/reservations/availability")).
		SetQueryParam("variant_id", st.String(session.VariantID)).
		SetQueryParam("start_date", s.fixture.StartDate).
		SetQueryParam("end_date", s.fixture.EndDate).
		SetQueryParam("quantity", strconv.Itoa(s.fixture.Quantity))

	resp, err := s.client.Do(ctx, req)
	if err != nil {
		return runner.Errored(err)
	}

	ev := assertions.NewEvaluator(resp)
	if assertions.FirstFailure(
		ev.StatusIn(nethttp.StatusOK),
		ev.Exists("data.available"),
		ev.HasKey("data.available_stock"),
	) != nil {
		return runner.Failed(resp, resp.CompactBody())
	}

	ext := capture.NewExtractor(resp)
	available, _ := ext.String("data.available")
	stock, ok := ext.String("data.available_stock")
	if !ok {
		stock = "null"
	}
	return runner.Passed(resp, fmt.Sprintf("Available: %s, Stock: %s", available, stock), nil)
}

func (s *Suite) createOrder(ctx context.Context, st *session.Session) runner.Outcome {
	payload := OrderPayload{
		Items: []OrderItemPayload{
			{
				VariantID: st.String(session.VariantID),
				Quantity:  s.fixture.Quantity,
				StartDate: s.fixture.StartDate,
				EndDate:   s.fixture.EndDate,
			},
		},
	}

	resp, err := s.send(ctx, nethttp.MethodPost, s.api("/orders"), st.String(session.CustomerToken), payload)
	if err != nil {
		return runner.Errored(err)
	}

	ev := assertions.NewEvaluator(resp)
	if assertions.FirstFailure(
		ev.StatusIn(nethttp.StatusCreated),
		ev.Exists("data.id"),
		ev.Exists("data.order_number"),
	) != nil {
		return runner.Failed(resp, resp.CompactBody())
	}

	values := capture.ExtractAll(resp, map[string]string{
		"id":     "data.id",
		"number": "data.order_number",
	})
	return runner.Passed(resp,
		fmt.Sprintf("Order ID: %s, Number: %s", values["id"], values["number"]),
		session.Outputs{session.OrderID: values["id"]},
	)
}

// listCollection fetches one of the customer's collections and reports its size.
func (s *Suite) listCollection(path, noun string) runner.StepFunc {
	return func(ctx context.Context, st *session.Session) runner.Outcome {
		resp, err := s.send(ctx, nethttp.MethodGet, s.api(path), st.String(session.CustomerToken), nil)
		if err != nil {
			return runner.Errored(err)
		}

		ev := assertions.NewEvaluator(resp)
		found := ev.IsArray("data")
		if assertions.FirstFailure(ev.StatusIn(nethttp.StatusOK), found) != nil {
			return runner.Failed(resp, resp.CompactBody())
		}
		return runner.Passed(resp, fmt.Sprintf("Found %d %s", found.Actual, noun), nil)
	}
}

func (s *Suite) cancelOrder(ctx context.Context, st *session.Session) runner.Outcome {
	target := s.api("/orders", st.String(session.OrderID))
	return s.deleteResource(ctx, target, st.String(session.CustomerToken), "Order cancelled successfully")
}

func (s *Suite) deleteProduct(ctx context.Context, st *session.Session) runner.Outcome {
	target := s.api("/products", st.String(session.ProductID))
	return s.deleteResource(ctx, target, st.String(session.VendorToken), "Product deleted successfully")
}

func (s *Suite) deleteResource(ctx context.Context, target, token, success string) runner.Outcome {
	resp, err := s.send(ctx, nethttp.MethodDelete, target, token, nil)
	if err != nil {
		return runner.Errored(err)
	}

	if !assertions.NewEvaluator(resp).StatusIn(nethttp.StatusOK, nethttp.StatusNoContent).Passed {
		return runner.Failed(resp, fmt.Sprintf("Status: %d", resp.StatusCode))
	}
	return runner.Passed(resp, success, nil)
}
