package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/pulsespark/engram/pkg/auth"
	"github.com/pulsespark/engram/pkg/auth/static"
	"github.com/pulsespark/engram/pkg/engine"
	"github.com/pulsespark/engram/pkg/eventstream/nop"
	"github.com/pulsespark/engram/pkg/logger"
	"github.com/pulsespark/engram/pkg/memory"
	"github.com/pulsespark/engram/pkg/storage/inmemory"
)

const (
	aliceID    = "6f1e1b2a-0f0f-4d6e-9f5a-111111111111"
	bobID      = "6f1e1b2a-0f0f-4d6e-9f5a-222222222222"
	aliceToken = "alice-token"
)

// testEmbedder returns a fixed unit vector for every input.
type testEmbedder struct{}

func (testEmbedder) Embed(_ context.Context, _ string) ([]float32, error) {
	return unitVector(), nil
}

func (testEmbedder) Close() error {
	return nil
}

func unitVector() []float32 {
	v := make([]float32, memory.EmbeddingDim)
	v[0] = 1
	return v
}

func newTestServer() (*Server, *inmemory.Store) {
	store := inmemory.NewStore()

	resolver := static.NewResolver()
	resolver.Register(aliceToken, auth.Identity{UserID: aliceID, Email: "alice@example.com"})

	eng := engine.NewEngine(store, testEmbedder{}, nop.NewPublisher(), logger.Nop())
	server := NewServer(Config{ListenAddr: ":0", Version: "test"}, eng, resolver, logger.Nop())
	return server, store
}

func seedItem(store *inmemory.Store, userID, text string) *memory.Item {
	stored, err := store.Insert(context.Background(), &memory.Item{
		UserID:    userID,
		Text:      text,
		Embedding: unitVector(),
		Metadata:  memory.DefaultMetadata(),
	})
	Expect(err).NotTo(HaveOccurred())
	return stored
}

func request(method, target string, body any) *http.Request {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		Expect(err).NotTo(HaveOccurred())
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Authorization", "Bearer "+aliceToken)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req
}

func decodeBody(resp *http.Response) map[string]any {
	defer resp.Body.Close()
	var decoded map[string]any
	Expect(json.NewDecoder(resp.Body).Decode(&decoded)).To(Succeed())
	return decoded
}

var _ = Describe("Server", func() {
	var (
		server *Server
		store  *inmemory.Store
	)

	BeforeEach(func() {
		server, store = newTestServer()
	})

	Describe("authentication middleware", func() {
		It("rejects requests without a credential", func() {
			req := httptest.NewRequest(http.MethodGet, "/memory-items", nil)

			resp, err := server.app.Test(req)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(http.StatusUnauthorized))
			Expect(decodeBody(resp)).To(HaveKey("error"))
		})

		It("rejects an unresolvable credential", func() {
			req := httptest.NewRequest(http.MethodGet, "/memory-items", nil)
			req.Header.Set("Authorization", "Bearer wrong-token")

			resp, err := server.app.Test(req)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(http.StatusUnauthorized))
		})

		It("leaves the health endpoint open", func() {
			req := httptest.NewRequest(http.MethodGet, "/memory-items/health", nil)

			resp, err := server.app.Test(req)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(http.StatusOK))
		})
	})

	Describe("create", func() {
		It("stores a valid item and returns 201", func() {
			resp, err := server.app.Test(request(http.MethodPost, "/memory-items", map[string]any{
				"user_id":   aliceID,
				"text":      "hooks demo",
				"embedding": unitVector(),
				"tags":      []string{"React", " Hooks "},
			}))
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(http.StatusCreated))

			body := decodeBody(resp)
			Expect(body["id"]).NotTo(BeEmpty())
			Expect(body["tags"]).To(Equal([]any{"react", "hooks"}))
			Expect(body).NotTo(HaveKey("similarity"))
		})

		It("defaults the owner to the caller when user_id is omitted", func() {
			resp, err := server.app.Test(request(http.MethodPost, "/memory-items", map[string]any{
				"text":      "implicit owner",
				"embedding": unitVector(),
			}))
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(http.StatusCreated))
			Expect(decodeBody(resp)["user_id"]).To(Equal(aliceID))
		})

		It("rejects a wrong-sized embedding with 400", func() {
			resp, err := server.app.Test(request(http.MethodPost, "/memory-items", map[string]any{
				"user_id":   aliceID,
				"text":      "bad vector",
				"embedding": []float32{0.1, 0.2},
			}))
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(http.StatusBadRequest))
		})

		It("refuses creation for another user with 403", func() {
			resp, err := server.app.Test(request(http.MethodPost, "/memory-items", map[string]any{
				"user_id":   bobID,
				"text":      "not mine",
				"embedding": unitVector(),
			}))
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(http.StatusForbidden))
		})

		It("rejects a malformed body with 400", func() {
			req := httptest.NewRequest(http.MethodPost, "/memory-items", bytes.NewReader([]byte("{not json")))
			req.Header.Set("Authorization", "Bearer "+aliceToken)
			req.Header.Set("Content-Type", "application/json")

			resp, err := server.app.Test(req)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(http.StatusBadRequest))
		})
	})

	Describe("list and search", func() {
		It("echoes the pagination envelope", func() {
			for i := 0; i < 3; i++ {
				seedItem(store, aliceID, fmt.Sprintf("note %d", i))
			}

			resp, err := server.app.Test(request(http.MethodGet, "/memory-items?page=1&page_size=2", nil))
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(http.StatusOK))

			body := decodeBody(resp)
			Expect(body["total_count"]).To(BeNumerically("==", 3))
			Expect(body["page"]).To(BeNumerically("==", 1))
			Expect(body["page_size"]).To(BeNumerically("==", 2))
			Expect(body["has_next"]).To(Equal(true))
			Expect(body["items"]).To(HaveLen(2))
		})

		It("rejects an unsupported search type with 400", func() {
			resp, err := server.app.Test(request(http.MethodGet, "/memory-items?search_type=quantum", nil))
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(http.StatusBadRequest))
		})

		It("rejects an out-of-range page size with 400", func() {
			resp, err := server.app.Test(request(http.MethodGet, "/memory-items?page_size=500", nil))
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(http.StatusBadRequest))
		})

		It("refuses to list another user's items with 403", func() {
			resp, err := server.app.Test(request(http.MethodGet, "/memory-items?user_id="+bobID, nil))
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(http.StatusForbidden))
		})

		It("serves a text search", func() {
			seedItem(store, aliceID, "fiber middleware ordering")
			seedItem(store, aliceID, "postgres tuning")

			resp, err := server.app.Test(request(http.MethodGet, "/memory-items?search=fiber&search_type=text", nil))
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(http.StatusOK))
			Expect(decodeBody(resp)["total_count"]).To(BeNumerically("==", 1))
		})

		It("serves a vector search with similarity scores", func() {
			seedItem(store, aliceID, "semantic target")

			resp, err := server.app.Test(request(http.MethodGet, "/memory-items?search=target&search_type=vector", nil))
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(http.StatusOK))

			body := decodeBody(resp)
			items, ok := body["items"].([]any)
			Expect(ok).To(BeTrue())
			Expect(items).To(HaveLen(1))
			first, ok := items[0].(map[string]any)
			Expect(ok).To(BeTrue())
			Expect(first).To(HaveKey("similarity"))
		})
	})

	Describe("get by id", func() {
		It("returns an owned item", func() {
			stored := seedItem(store, aliceID, "mine")

			resp, err := server.app.Test(request(http.MethodGet, "/memory-items/"+stored.ID, nil))
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(http.StatusOK))
			Expect(decodeBody(resp)["text"]).To(Equal("mine"))
		})

		It("hides another user's item behind 403 with the generic body", func() {
			stored := seedItem(store, bobID, "bobs")

			resp, err := server.app.Test(request(http.MethodGet, "/memory-items/"+stored.ID, nil))
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(http.StatusForbidden))
			Expect(decodeBody(resp)["error"]).To(Equal("memory item not found or access denied"))
		})

		It("serves an absent item the identical 403 body", func() {
			resp, err := server.app.Test(request(http.MethodGet, "/memory-items/aaaaaaaa-aaaa-4aaa-8aaa-aaaaaaaaaaaa", nil))
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(http.StatusForbidden))
			Expect(decodeBody(resp)["error"]).To(Equal("memory item not found or access denied"))
		})

		It("rejects a malformed id with 400", func() {
			resp, err := server.app.Test(request(http.MethodGet, "/memory-items/not-a-uuid", nil))
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(http.StatusBadRequest))
		})
	})

	Describe("update", func() {
		It("applies a partial update", func() {
			stored := seedItem(store, aliceID, "before")

			resp, err := server.app.Test(request(http.MethodPut, "/memory-items/"+stored.ID, map[string]any{
				"text": "after",
			}))
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(http.StatusOK))
			Expect(decodeBody(resp)["text"]).To(Equal("after"))
		})

		It("rejects an empty field set with 400", func() {
			stored := seedItem(store, aliceID, "untouched")

			resp, err := server.app.Test(request(http.MethodPut, "/memory-items/"+stored.ID, map[string]any{}))
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(http.StatusBadRequest))
		})
	})

	Describe("delete", func() {
		It("removes an owned item with 204", func() {
			stored := seedItem(store, aliceID, "ephemeral")

			resp, err := server.app.Test(request(http.MethodDelete, "/memory-items/"+stored.ID, nil))
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(http.StatusNoContent))
		})

		It("hides another user's item behind 403", func() {
			stored := seedItem(store, bobID, "bobs")

			resp, err := server.app.Test(request(http.MethodDelete, "/memory-items/"+stored.ID, nil))
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(http.StatusForbidden))
		})
	})

	Describe("bulk delete", func() {
		It("deletes a fully owned batch", func() {
			first := seedItem(store, aliceID, "one")
			second := seedItem(store, aliceID, "two")

			resp, err := server.app.Test(request(http.MethodPost, "/memory-items/bulk-delete", map[string]any{
				"memory_ids": []string{first.ID, second.ID},
			}))
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(http.StatusOK))

			body := decodeBody(resp)
			Expect(body["deleted_count"]).To(BeNumerically("==", 2))
			Expect(body["requested_count"]).To(BeNumerically("==", 2))
			Expect(body["message"]).To(Equal("Deleted 2 memory items"))
		})

		It("rejects the batch when a member belongs to another owner", func() {
			mine := seedItem(store, aliceID, "mine")
			theirs := seedItem(store, bobID, "theirs")

			resp, err := server.app.Test(request(http.MethodPost, "/memory-items/bulk-delete", map[string]any{
				"memory_ids": []string{mine.ID, theirs.ID},
			}))
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(http.StatusForbidden))
		})

		It("rejects an empty batch with 400", func() {
			resp, err := server.app.Test(request(http.MethodPost, "/memory-items/bulk-delete", map[string]any{
				"memory_ids": []string{},
			}))
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(http.StatusBadRequest))
		})
	})

	Describe("stats", func() {
		It("summarizes the caller's items", func() {
			seedItem(store, aliceID, "counted")

			resp, err := server.app.Test(request(http.MethodGet, "/memory-items/stats/summary", nil))
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(http.StatusOK))
			Expect(decodeBody(resp)["total_memories"]).To(BeNumerically("==", 1))
		})

		It("returns a zero summary for an empty account", func() {
			resp, err := server.app.Test(request(http.MethodGet, "/memory-items/stats/summary", nil))
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(http.StatusOK))

			body := decodeBody(resp)
			Expect(body["total_memories"]).To(BeNumerically("==", 0))
			Expect(body["memories_by_type"]).NotTo(BeNil())
		})

		It("rejects an out-of-range lookback with 400", func() {
			resp, err := server.app.Test(request(http.MethodGet, "/memory-items/stats/summary?days_back=400", nil))
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(http.StatusBadRequest))
		})
	})

	Describe("health", func() {
		It("reports a healthy engine", func() {
			resp, err := server.app.Test(httptest.NewRequest(http.MethodGet, "/memory-items/health", nil))
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(http.StatusOK))

			body := decodeBody(resp)
			Expect(body["status"]).To(Equal("healthy"))
			Expect(body["database_connected"]).To(Equal(true))
			Expect(body["vector_search_available"]).To(Equal(true))
			Expect(body["version"]).To(Equal("test"))
		})
	})
})
