package integrationtests

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	auction "bidwize/internal/auctionService"
	catalog "bidwize/internal/catalogService"
	"bidwize/internal/notifier"
	order "bidwize/internal/orderService"
	payment "bidwize/internal/paymentService"
	"bidwize/internal/repository"
	"bidwize/internal/server"
	handler "bidwize/services/marketplace/handler"

	"github.com/gin-gonic/gin"
)

// SetupTestServer wires the full stack on the in-memory store. The repo is
// returned too so tests can seed state the HTTP surface does not expose,
// such as the valid-payment table.
func SetupTestServer(opts ...auction.Option) (*gin.Engine, *repository.MemoryRepo) {
	gin.SetMode(gin.TestMode)

	repo := repository.NewMemoryRepo()
	notif := notifier.NewLogNotifier()

	auctionSvc := auction.NewAuctionService(repo, notif, opts...)
	catalogSvc := catalog.NewCatalogService(repo, repo)
	orderSvc := order.NewOrderService(repo)
	paymentSvc := payment.NewPaymentService(repo)

	router := server.SetupRouter(server.Handlers{
		Auction: handler.NewAuctionHandler(auctionSvc),
		Catalog: handler.NewCatalogHandler(catalogSvc),
		Order:   handler.NewOrderHandler(orderSvc),
		Payment: handler.NewPaymentHandler(paymentSvc),
	})
	return router, repo
}

// ExecuteRequest executes an HTTP request and returns the response recorder.
func ExecuteRequest(t *testing.T, router *gin.Engine, method, url string, body []byte) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, url, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// ExecuteRequestAndParse executes an HTTP request on the given router and
// parses the JSON envelope. Created resources (201) come back unwrapped as
// their data payload; everything else returns the full envelope.
func ExecuteRequestAndParse(t *testing.T, router *gin.Engine, method, url string, body any) (map[string]any, *httptest.ResponseRecorder) {
	t.Helper()

	var reqBody []byte
	var err error

	switch v := body.(type) {
	case nil:
	case []byte:
		reqBody = v
	default:
		reqBody, err = json.Marshal(v)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
	}

	w := ExecuteRequest(t, router, method, url, reqBody)

	var resp map[string]any
	if len(w.Body.Bytes()) > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to unmarshal response: %v", err)
		}

		if w.Code == 201 {
			resp = resp["data"].(map[string]any)
		}
	}

	return resp, w
}
