package static_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/pulsespark/engram/pkg/auth"
	"github.com/pulsespark/engram/pkg/auth/static"
)

var _ = Describe("Resolver", func() {
	var resolver *static.Resolver

	BeforeEach(func() {
		resolver = static.NewResolver()
		resolver.Register("dev-token", auth.Identity{
			UserID: "11111111-1111-1111-1111-111111111111",
			Email:  "dev@example.com",
		})
	})

	It("resolves a registered credential", func() {
		identity, err := resolver.Resolve(context.Background(), "dev-token")
		Expect(err).ToNot(HaveOccurred())
		Expect(identity.UserID).To(Equal("11111111-1111-1111-1111-111111111111"))
		Expect(identity.Email).To(Equal("dev@example.com"))
	})

	It("rejects an unknown credential", func() {
		identity, err := resolver.Resolve(context.Background(), "wrong-token")
		Expect(err).To(MatchError(auth.ErrUnauthenticated))
		Expect(identity).To(BeNil())
	})

	It("rejects an empty credential", func() {
		_, err := resolver.Resolve(context.Background(), "")
		Expect(err).To(MatchError(auth.ErrUnauthenticated))
	})
})
