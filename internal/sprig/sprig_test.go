// Copyright (c) 2026, R.I. Pienaar and the Choria Project contributors
//
// SPDX-License-Identifier: Apache-2.0

package sprig

import (
	"bytes"
	"testing"
	"text/template"

	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestSprig(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Sprig")
}

var _ = Describe("Sprig", func() {
	render := func(tmpl string, data any) string {
		t, err := template.New("t").Funcs(TxtFuncMap()).Parse(tmpl)
		Expect(err).ToNot(HaveOccurred())

		buf := bytes.NewBuffer([]byte{})
		Expect(t.Execute(buf, data)).To(Succeed())

		return buf.String()
	}

	It("Should keep the sprig functions", func() {
		Expect(render(`{{ "hello" | upper }}`, nil)).To(Equal("HELLO"))
	})

	It("Should generate valid uuids", func() {
		_, err := uuid.Parse(render(`{{ uuidv4 }}`, nil))
		Expect(err).ToNot(HaveOccurred())
	})
})
