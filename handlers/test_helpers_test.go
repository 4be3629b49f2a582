package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"contractorbill/collections"
	"contractorbill/services"
	"contractorbill/testhelpers"
)

// newTestRequestEvent creates a RequestEvent suitable for handler tests.
func newTestRequestEvent(app *pocketbase.PocketBase, req *http.Request, rec *httptest.ResponseRecorder) *core.RequestEvent {
	e := &core.RequestEvent{}
	e.App = app
	e.Request = req
	e.Response = rec
	return e
}

// testEnv is a temp-dir app with services over its local_store collection.
type testEnv struct {
	app      *pocketbase.PocketBase
	exporter *services.Exporter
	drafts   *services.DraftService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	app := testhelpers.NewTestApp(t)
	store := collections.NewRecordStore(app)
	clock := func() time.Time { return time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC) }
	return &testEnv{
		app:      app,
		exporter: services.NewExporter(store, services.WithClock(clock)),
		drafts:   services.NewDraftService(store, nil),
	}
}

func sampleBill() services.BillInput {
	return services.BillInput{
		ProjectDetails: services.ProjectDetails{
			ProjectName:    "Road Works",
			ContractorName: "ABC Builders",
			BillDate:       time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
			TenderPremium:  4,
		},
		Items: []services.BillItem{
			{ItemNo: "1.0", Description: "Excavation", Quantity: 10, Rate: 100, Unit: "cum"},
			{ItemNo: "a", Description: "Hard rock", Quantity: 5, Rate: 50, Unit: "cum", Level: services.LevelSub},
		},
	}
}

func jsonBody(t *testing.T, v any) *bytes.Reader {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	return bytes.NewReader(b)
}
