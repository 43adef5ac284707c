package server_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"

	"github.com/andrebq/greeter/server"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("Handler", func() {
	var (
		handler http.Handler
		rec     *httptest.ResponseRecorder
	)

	BeforeEach(func() {
		handler = server.NewHandler(nil)
		rec = httptest.NewRecorder()
	})

	Context("GET /", func() {
		It("responds with the greeting", func() {
			handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(rec.Body.String()).To(Equal("Hello from the Backend Service!"))
		})

		It("ignores the query string", func() {
			handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/?name=x", nil))

			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(rec.Body.String()).To(Equal(server.Greeting))
		})
	})

	Context("Unrouted requests", func() {
		It("returns not found for other paths", func() {
			handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/missing", nil))

			Expect(rec.Code).To(Equal(http.StatusNotFound))
			Expect(rec.Body.String()).ToNot(Equal(server.Greeting))
		})

		It("returns not found for other methods on /", func() {
			handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))

			Expect(rec.Code).ToNot(Equal(http.StatusOK))
		})
	})

	Context("Access log enabled", func() {
		var accessLog *bytes.Buffer

		BeforeEach(func() {
			accessLog = &bytes.Buffer{}
			handler = server.NewHandler(accessLog)
		})

		It("records one line per request", func() {
			handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
			handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/missing", nil))

			Expect(rec.Body.String()).To(Equal(server.Greeting))
			Expect(accessLog.String()).To(ContainSubstring(`"GET / `))
			Expect(accessLog.String()).To(ContainSubstring(" 200 "))
			Expect(accessLog.String()).To(ContainSubstring(`"GET /missing `))
			Expect(accessLog.String()).To(ContainSubstring(" 404 "))
		})
	})
})
