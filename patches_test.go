// Copyright (c) 2026, R.I. Pienaar and the Choria Project contributors
//
// SPDX-License-Identifier: Apache-2.0

package amberext

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("PatchSet", func() {
	It("Should load the built in patch points", func() {
		set, err := DefaultPatchSet()
		Expect(err).ToNot(HaveOccurred())
		Expect(set.Names()).To(Equal(requiredPatches))

		p, err := set.Get(patchRakefileTestPattern)
		Expect(err).ToNot(HaveOccurred())
		Expect(p.Version).To(Equal(1))
		Expect(p.AnchorPattern().MatchString(`t.test_files = FileList["test/**/test_*.rb"]`)).To(BeTrue())
		Expect(p.AnchorPattern().MatchString(`t.test_files = FileList["test/**/*_test.rb"]`)).To(BeFalse())

		p, err = set.Get(patchDummyApplication)
		Expect(err).ToNot(HaveOccurred())
		Expect(p.AnchorPattern().MatchString("# comment\nBundler.require(*Rails.groups)\n")).To(BeTrue())
	})

	It("Should fail for unknown patch points", func() {
		set, err := DefaultPatchSet()
		Expect(err).ToNot(HaveOccurred())

		_, err = set.Get("nope")
		Expect(err).To(MatchError("unknown patch point nope"))
	})

	DescribeTable("Invalid catalogues",
		func(doc string, errMatch string) {
			_, err := LoadPatchSet([]byte(doc))
			Expect(err).To(MatchError(ContainSubstring(errMatch)))
		},
		Entry("invalid yaml", "patches: [", "invalid patch points"),
		Entry("no name", "patches: [{version: 1, file: x, anchor: x, replacement: y}]", "patch point 0 has no name"),
		Entry("no version", "patches: [{name: a, file: x, anchor: x, replacement: y}]", "patch point a requires a version"),
		Entry("no file", "patches: [{name: a, version: 1, anchor: x, replacement: y}]", "patch point a requires a file"),
		Entry("no anchor", "patches: [{name: a, version: 1, file: x, replacement: y}]", "patch point a requires an anchor"),
		Entry("no replacement", "patches: [{name: a, version: 1, file: x, anchor: x}]", "requires either a replacement or a template"),
		Entry("both replacements", "patches: [{name: a, version: 1, file: x, anchor: x, replacement: y, template: t}]", "requires either a replacement or a template"),
		Entry("invalid anchor", "patches: [{name: a, version: 1, file: x, anchor: '(', replacement: y}]", "patch point a has an invalid anchor"),
		Entry("duplicate", "patches: [{name: a, version: 1, file: x, anchor: x, replacement: y}, {name: a, version: 2, file: x, anchor: x, replacement: y}]", "duplicate patch point a"),
	)
})
