package memory_test

import (
	"encoding/json"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/pulsespark/engram/pkg/memory"
)

var _ = Describe("Metadata", func() {
	Describe("Validate", func() {
		It("accepts all documented types", func() {
			for _, t := range []memory.ItemType{
				memory.TypeChat, memory.TypeCode, memory.TypeNote,
				memory.TypeDocument, memory.TypeProject,
			} {
				md := memory.Metadata{Type: t}
				Expect(md.Validate()).To(Succeed())
			}
		})

		It("rejects an unknown type", func() {
			md := memory.Metadata{Type: "diary"}
			Expect(md.Validate()).NotTo(Succeed())
		})

		It("rejects importance outside 1..5", func() {
			Expect(memory.Metadata{Importance: 6}.Validate()).NotTo(Succeed())
			Expect(memory.Metadata{Importance: -1}.Validate()).NotTo(Succeed())
		})

		It("accepts unset importance", func() {
			Expect(memory.Metadata{}.Validate()).To(Succeed())
		})
	})

	Describe("JSON round-trip", func() {
		It("preserves unknown keys opaquely", func() {
			in := []byte(`{"source":"editor","type":"code","importance":3,"language":"go","custom_key":"custom_value","nested":{"a":1}}`)

			var md memory.Metadata
			Expect(json.Unmarshal(in, &md)).To(Succeed())
			Expect(md.Source).To(Equal("editor"))
			Expect(md.Type).To(Equal(memory.TypeCode))
			Expect(md.Importance).To(Equal(3))
			Expect(md.Language).To(Equal("go"))
			Expect(md.Extra).To(HaveKeyWithValue("custom_key", "custom_value"))
			Expect(md.Extra).To(HaveKey("nested"))

			out, err := json.Marshal(md)
			Expect(err).NotTo(HaveOccurred())

			var got map[string]any
			Expect(json.Unmarshal(out, &got)).To(Succeed())
			Expect(got).To(HaveKeyWithValue("custom_key", "custom_value"))
			Expect(got).To(HaveKeyWithValue("type", "code"))
			Expect(got).To(HaveKeyWithValue("importance", float64(3)))
		})

		It("omits zero-valued documented fields", func() {
			out, err := json.Marshal(memory.Metadata{Type: memory.TypeNote})
			Expect(err).NotTo(HaveOccurred())

			var got map[string]any
			Expect(json.Unmarshal(out, &got)).To(Succeed())
			Expect(got).To(HaveLen(1))
			Expect(got).To(HaveKeyWithValue("type", "note"))
		})
	})

	Describe("DefaultMetadata", func() {
		It("defaults to a note with importance 1", func() {
			md := memory.DefaultMetadata()
			Expect(md.Type).To(Equal(memory.TypeNote))
			Expect(md.Importance).To(Equal(1))
		})
	})
})

var _ = Describe("ParseSearchMode", func() {
	It("defaults the empty string to hybrid", func() {
		mode, err := memory.ParseSearchMode("")
		Expect(err).NotTo(HaveOccurred())
		Expect(mode).To(Equal(memory.ModeHybrid))
	})

	It("parses all supported values", func() {
		for value, want := range map[string]memory.SearchMode{
			"vector": memory.ModeVector,
			"text":   memory.ModeText,
			"hybrid": memory.ModeHybrid,
		} {
			mode, err := memory.ParseSearchMode(value)
			Expect(err).NotTo(HaveOccurred())
			Expect(mode).To(Equal(want))
			Expect(mode.String()).To(Equal(value))
		}
	})

	It("rejects unsupported values", func() {
		_, err := memory.ParseSearchMode("fuzzy")
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("Page", func() {
	It("computes offsets", func() {
		page, err := memory.NewPage(3, 20)
		Expect(err).NotTo(HaveOccurred())
		Expect(page.Offset()).To(Equal(40))
	})

	It("defaults the size when zero", func() {
		page, err := memory.NewPage(1, 0)
		Expect(err).NotTo(HaveOccurred())
		Expect(page.Size).To(Equal(memory.DefaultPageSize))
	})

	It("rejects page < 1 and out-of-range sizes", func() {
		_, err := memory.NewPage(0, 20)
		Expect(err).To(HaveOccurred())

		_, err = memory.NewPage(1, memory.MaxPageSize+1)
		Expect(err).To(HaveOccurred())
	})

	It("reports has_next exactly when rows remain past the window", func() {
		// has_next == total > (page-1)*size + size, across a spread of inputs.
		for _, tc := range []struct {
			page, size, total int
			want              bool
		}{
			{1, 20, 100, true},
			{5, 20, 100, false},
			{1, 20, 20, false},
			{1, 20, 21, true},
			{2, 50, 100, false},
			{1, 1, 2, true},
		} {
			p, err := memory.NewPage(tc.page, tc.size)
			Expect(err).NotTo(HaveOccurred())
			Expect(p.HasNext(tc.total)).To(Equal(tc.want),
				"page=%d size=%d total=%d", tc.page, tc.size, tc.total)
		}
	})
})
