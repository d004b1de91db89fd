// Copyright (c) 2026, R.I. Pienaar and the Choria Project contributors
//
// SPDX-License-Identifier: Apache-2.0

package amberext

import (
	"errors"
	"io/fs"
	"testing/fstest"

	"github.com/choria-io/amberext/internal/sprig"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Renderer", func() {
	var (
		source   fstest.MapFS
		renderer *Renderer
		bindings Bindings
	)

	BeforeEach(func() {
		source = fstest.MapFS{
			"gem/name.tmpl":        {Data: []byte("{{ .PackageName }} is {{ .ModuleName }}\n")},
			"gem/upper.tmpl":       {Data: []byte("{{ .PackageBase | upper }}")},
			"gem/outer.tmpl":       {Data: []byte(`before {{ render "gem/name.tmpl" }}after`)},
			"gem/missing.tmpl":     {Data: []byte("{{ .Missing }}")},
			"dummy/name.rb.jet":    {Data: []byte("{{ PackageName }} {{ .ModuleName }}")},
			"dummy/outer.rb.jet":   {Data: []byte(`{{ render("gem/upper.tmpl") }} {{ EnvironmentVariable }}`)},
			"dummy/missing.rb.jet": {Data: []byte("{{ Missing }}")},
		}

		renderer = NewRenderer(source, sprig.TxtFuncMap(), nil)

		bindings = Bindings{
			PackageName:         "sample-widgets",
			PackagePath:         "sample/widgets",
			PackageBase:         "widgets",
			ModuleName:          "Sample::Widgets",
			EnvironmentVariable: "AMBER_EXTENSION_GEM",
		}
	})

	Describe("RenderFile", func() {
		It("Should render Go templates", func() {
			res, err := renderer.RenderFile("gem/name.tmpl", bindings)
			Expect(err).ToNot(HaveOccurred())
			Expect(res).To(Equal("sample-widgets is Sample::Widgets\n"))
		})

		It("Should support sprig functions", func() {
			res, err := renderer.RenderFile("gem/upper.tmpl", bindings)
			Expect(err).ToNot(HaveOccurred())
			Expect(res).To(Equal("WIDGETS"))
		})

		It("Should render partials", func() {
			res, err := renderer.RenderFile("gem/outer.tmpl", bindings)
			Expect(err).ToNot(HaveOccurred())
			Expect(res).To(Equal("before sample-widgets is Sample::Widgets\nafter"))
		})

		It("Should expose bindings as variables and context to Jet templates", func() {
			res, err := renderer.RenderFile("dummy/name.rb.jet", bindings)
			Expect(err).ToNot(HaveOccurred())
			Expect(res).To(Equal("sample-widgets Sample::Widgets"))
		})

		It("Should render partials from Jet templates", func() {
			res, err := renderer.RenderFile("dummy/outer.rb.jet", bindings)
			Expect(err).ToNot(HaveOccurred())
			Expect(res).To(Equal("WIDGETS AMBER_EXTENSION_GEM"))
		})

		It("Should fail for missing templates", func() {
			_, err := renderer.RenderFile("gem/nope.tmpl", bindings)

			var terr *TemplateError
			Expect(errors.As(err, &terr)).To(BeTrue())
			Expect(terr.Template).To(Equal("gem/nope.tmpl"))
			Expect(errors.Is(err, fs.ErrNotExist)).To(BeTrue())
		})

		DescribeTable("Undefined bindings",
			func(name string) {
				_, err := renderer.RenderFile(name, bindings)

				var terr *TemplateError
				Expect(errors.As(err, &terr)).To(BeTrue())
				Expect(terr.Template).To(Equal(name))
			},
			Entry("go", "gem/missing.tmpl"),
			Entry("jet", "dummy/missing.rb.jet"),
		)
	})

	Describe("RenderString", func() {
		It("Should select the engine by name", func() {
			res, err := renderer.RenderString("x.tmpl", "{{ .PackagePath }}", bindings)
			Expect(err).ToNot(HaveOccurred())
			Expect(res).To(Equal("sample/widgets"))

			res, err = renderer.RenderString("x.jet", "{{ PackagePath }}", bindings)
			Expect(err).ToNot(HaveOccurred())
			Expect(res).To(Equal("sample/widgets"))
		})

		It("Should support uuids", func() {
			res, err := renderer.RenderString("x", `{{ uuidv4 }}`, bindings)
			Expect(err).ToNot(HaveOccurred())
			Expect(res).To(MatchRegexp(`^[0-9a-f]{8}-[0-9a-f]{4}-4[0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}$`))
		})

		It("Should fail on parse errors", func() {
			_, err := renderer.RenderString("broken.tmpl", "{{ .PackageName ", bindings)
			Expect(err).To(MatchError(ContainSubstring("rendering template broken.tmpl failed: parsing failed")))

			_, err = renderer.RenderString("broken.jet", "{{ PackageName ", bindings)
			Expect(err).To(MatchError(ContainSubstring("rendering template broken.jet failed: parsing failed")))
		})

		It("Should support custom delimiters", func() {
			renderer.Delims("[[", "]]")

			res, err := renderer.RenderString("x.tmpl", "{{ keep }} [[ .PackageName ]]", bindings)
			Expect(err).ToNot(HaveOccurred())
			Expect(res).To(Equal("{{ keep }} sample-widgets"))

			res, err = renderer.RenderString("x.jet", "{{ keep }} [[ PackageName ]]", bindings)
			Expect(err).ToNot(HaveOccurred())
			Expect(res).To(Equal("{{ keep }} sample-widgets"))
		})

		It("Should ignore incomplete delimiters", func() {
			renderer.Delims("[[", "")

			res, err := renderer.RenderString("x.tmpl", "{{ .PackageBase }}", bindings)
			Expect(err).ToNot(HaveOccurred())
			Expect(res).To(Equal("widgets"))
		})

		It("Should not modify the bindings", func() {
			_, err := renderer.RenderString("x.tmpl", `{{ $_ := set . "PackageName" "other" }}{{ .PackageName }}`, bindings)
			Expect(err).ToNot(HaveOccurred())
			Expect(bindings.PackageName).To(Equal("sample-widgets"))
			Expect(bindings.Map()["PackageName"]).To(Equal("sample-widgets"))
		})
	})
})
