package airport_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"aeropulse.app/pulse/internal/airport"
)

func writeProfile(dir, content string) string {
	path := filepath.Join(dir, "airport.json")
	Expect(os.WriteFile(path, []byte(content), 0o600)).To(Succeed())
	return path
}

const validProfile = `{
	"airport_name": "Indira Gandhi International Airport",
	"airport_slug": "delhi_igi",
	"city": "New Delhi",
	"airport_keywords": ["IGI Airport", "Delhi Airport"],
	"airlines": [
		{"name": "Air India", "slug": "air_india", "keywords": ["Air India"]},
		{"name": "IndiGo", "slug": "indigo", "keywords": ["IndiGo", "6E flight"]}
	],
	"categories": {
		"luggage_handling": ["luggage", "baggage"]
	},
	"query_terms": ["Delhi Airport", "IGI Airport"]
}`

var _ = Describe("Profile", func() {
	var profile *airport.Profile

	BeforeEach(func() {
		path := writeProfile(GinkgoT().TempDir(), validProfile)
		var err error
		profile, err = airport.Load(path)
		Expect(err).NotTo(HaveOccurred())
	})

	Describe("Load", func() {
		It("rejects a missing file", func() {
			_, err := airport.Load("/nonexistent/airport.json")
			Expect(err).To(HaveOccurred())
		})

		It("rejects a profile without a slug", func() {
			path := writeProfile(GinkgoT().TempDir(), `{"categories": {"a": ["b"]}}`)
			_, err := airport.Load(path)
			Expect(err).To(MatchError(ContainSubstring("airport_slug")))
		})

		It("rejects a profile without categories", func() {
			path := writeProfile(GinkgoT().TempDir(), `{"airport_slug": "x"}`)
			_, err := airport.Load(path)
			Expect(err).To(MatchError(ContainSubstring("category")))
		})

		It("derives a missing airline slug from the name", func() {
			path := writeProfile(GinkgoT().TempDir(), `{
				"airport_slug": "delhi_igi",
				"airlines": [{"name": "Air India Express", "keywords": ["Air India Express"]}],
				"categories": {"luggage_handling": ["luggage"]}
			}`)
			p, err := airport.Load(path)
			Expect(err).NotTo(HaveOccurred())
			Expect(p.Airlines[0].Slug).To(Equal("air-india-express"))
		})

		It("rejects an airline with neither name nor slug", func() {
			path := writeProfile(GinkgoT().TempDir(), `{
				"airport_slug": "delhi_igi",
				"airlines": [{"keywords": ["???"]}],
				"categories": {"luggage_handling": ["luggage"]}
			}`)
			_, err := airport.Load(path)
			Expect(err).To(MatchError(ContainSubstring("needs a name or slug")))
		})
	})

	Describe("DefaultQuery", func() {
		It("joins the configured query terms with OR", func() {
			Expect(profile.DefaultQuery()).To(Equal("Delhi Airport OR IGI Airport"))
		})

		It("falls back to airport and airline keywords when no query terms are set", func() {
			profile.QueryTerms = nil
			Expect(profile.DefaultQuery()).To(Equal("IGI Airport OR Delhi Airport OR Air India OR IndiGo OR 6E flight"))
		})
	})

	Describe("MatchAirport", func() {
		It("matches keywords case-insensitively", func() {
			slug := profile.MatchAirport("stuck at igi airport again")
			Expect(slug).NotTo(BeNil())
			Expect(*slug).To(Equal("delhi_igi"))
		})

		It("returns nil when nothing matches", func() {
			Expect(profile.MatchAirport("nice day in mumbai")).To(BeNil())
		})
	})

	Describe("MatchAirline", func() {
		It("returns the matching airline's slug", func() {
			slug := profile.MatchAirline("my indigo flight was fine")
			Expect(slug).NotTo(BeNil())
			Expect(*slug).To(Equal("indigo"))
		})

		It("returns nil when no airline is mentioned", func() {
			Expect(profile.MatchAirline("the terminal was crowded")).To(BeNil())
		})
	})
})
