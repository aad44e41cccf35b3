package normalize_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"aeropulse.app/pulse/internal/normalize"
)

var _ = Describe("Clean", func() {
	It("strips HTML tags", func() {
		Expect(normalize.Clean("<p>Great flight</p>")).To(Equal("Great flight"))
	})

	It("strips URLs", func() {
		Expect(normalize.Clean("check https://example.com/post now")).To(Equal("check now"))
		Expect(normalize.Clean("see www.example.com too")).To(Equal("see too"))
	})

	It("strips mentions and hashtags", func() {
		Expect(normalize.Clean("@airline lost my bag #travel #fail")).To(Equal("lost my bag"))
	})

	It("collapses whitespace", func() {
		Expect(normalize.Clean("too   many\t\tspaces\n\nhere")).To(Equal("too many spaces here"))
	})

	It("returns empty for text that is only noise", func() {
		Expect(normalize.Clean("@a #b https://c.example")).To(Equal(""))
	})

	It("is idempotent", func() {
		inputs := []string{
			"<b>Delayed</b> again @IGIAirport https://t.co/x #delhi",
			"plain text stays plain",
			"   spaced   out   ",
		}
		for _, in := range inputs {
			once := normalize.Clean(in)
			Expect(normalize.Clean(once)).To(Equal(once))
		}
	})
})
