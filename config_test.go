// Copyright (c) 2026, R.I. Pienaar and the Choria Project contributors
//
// SPDX-License-Identifier: Apache-2.0

package amberext

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Config", func() {
	Describe("DefaultConfig", func() {
		It("Should load the built in defaults", func() {
			cfg, err := DefaultConfig()
			Expect(err).ToNot(HaveOccurred())

			Expect(cfg.TargetDirectory).To(BeEmpty())
			Expect(cfg.FrameworkGem).To(Equal("amber_component"))
			Expect(cfg.Scaffolder.Command).To(Equal("bundle gem"))
			Expect(cfg.Scaffolder.Arguments).To(ContainElement("--test=minitest"))
			Expect(cfg.Scaffolder.Answers).To(Equal("y\n"))
			Expect(cfg.Scaffolder.PTY).To(BeTrue())
			Expect(cfg.DemoApp.Enabled).To(BeTrue())
			Expect(cfg.DemoApp.Path).To(Equal("test/dummy"))
			Expect(cfg.DemoApp.Check).To(Equal("rails --version"))
			Expect(cfg.DemoApp.Install).To(Equal("gem install rails"))
			Expect(cfg.DemoApp.Generator.Command).To(Equal("rails new"))
			Expect(cfg.DemoApp.EnvironmentVariable).To(Equal("AMBER_EXTENSION_GEM"))
			Expect(cfg.DemoApp.Stylesheets).To(Equal([]string{
				"app/assets/stylesheets/application.css",
				"app/assets/stylesheets/application.scss",
				"app/assets/stylesheets/application.sass.scss",
			}))
		})
	})

	Describe("ParseConfig", func() {
		It("Should overlay the defaults", func() {
			cfg, err := ParseConfig([]byte("demo_app:\n  enabled: false\nversion: 1.2.3\n"))
			Expect(err).ToNot(HaveOccurred())
			Expect(cfg.DemoApp.Enabled).To(BeFalse())
			Expect(cfg.DemoApp.Path).To(Equal("test/dummy"))
			Expect(cfg.Version).To(Equal("1.2.3"))
			Expect(cfg.Scaffolder.Command).To(Equal("bundle gem"))
		})

		It("Should fail for invalid data", func() {
			_, err := ParseConfig([]byte("demo_app: ["))
			Expect(err).To(MatchError(ContainSubstring("invalid configuration")))
		})
	})

	Describe("Command", func() {
		It("Should quote positional arguments", func() {
			c := Command{Command: "bundle gem", Arguments: []string{"--test=minitest"}}
			Expect(c.commandLine("/tmp/my dir/x")).To(Equal("bundle gem --test=minitest '/tmp/my dir/x'"))
			Expect(Command{Command: "rails --version"}.commandLine()).To(Equal("rails --version"))
		})
	})
})
