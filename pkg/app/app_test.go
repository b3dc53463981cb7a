package app_test

import (
	"bytes"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/spf13/cobra"

	"github.com/papercomputeco/imgup/pkg/app"
	"github.com/papercomputeco/imgup/pkg/credentials"
	"github.com/papercomputeco/imgup/pkg/setup"
)

var _ = Describe("App", func() {
	var (
		configPath string
		out        *bytes.Buffer
	)

	BeforeEach(func() {
		configPath = filepath.Join(GinkgoT().TempDir(), "client_secrets.toml")
		out = &bytes.Buffer{}
	})

	save := func(creds credentials.Credentials) {
		mgr, err := credentials.NewManager(configPath)
		Expect(err).NotTo(HaveOccurred())
		Expect(mgr.Save(&creds)).To(Succeed())
	}

	Describe("New", func() {
		It("loads the credentials file from the config path", func() {
			save(credentials.Credentials{ClientID: "id", ClientSecret: "s", AccessToken: "a", RefreshToken: "r"})

			a, err := app.New(app.Options{ConfigPath: configPath, Out: out})
			Expect(err).NotTo(HaveOccurred())
			Expect(a.Credentials.GetTarget()).To(Equal(configPath))
			Expect(a.Authorizer.IsAuthorized()).To(BeTrue())
			Expect(a.Authorizer.ClientID()).To(Equal("id"))
		})
	})

	Describe("FromCommand", func() {
		It("reads the persistent flags", func() {
			save(credentials.Credentials{AccessToken: "a"})

			cmd := &cobra.Command{Use: "test", RunE: func(*cobra.Command, []string) error { return nil }}
			app.AddPersistentFlags(cmd)
			cmd.SetOut(out)
			cmd.SetArgs([]string{"--config", configPath, "--debug"})
			Expect(cmd.Execute()).To(Succeed())

			a, err := app.FromCommand(cmd)
			Expect(err).NotTo(HaveOccurred())
			Expect(a.Credentials.GetTarget()).To(Equal(configPath))

			a.Logger.Debug("debug line")
			Expect(out.String()).To(ContainSubstring("debug line"))
		})
	})

	Describe("Bootstrap", func() {
		It("skips setup when an access token is stored", func() {
			save(credentials.Credentials{AccessToken: "a"})

			a, err := app.New(app.Options{ConfigPath: configPath, Out: out})
			Expect(err).NotTo(HaveOccurred())

			Expect(a.Bootstrap(setup.NewTerminal(&bytes.Buffer{}, out), nil)).To(Succeed())
			Expect(out.String()).To(BeEmpty())
		})

		It("runs setup and stores the tokens when unauthorized", func() {
			save(credentials.Credentials{ClientID: "id", ClientSecret: "s"})

			a, err := app.New(app.Options{ConfigPath: configPath, Out: out})
			Expect(err).NotTo(HaveOccurred())

			var opened string
			prompter := setup.NewTerminal(bytes.NewBufferString("access\nrefresh\n"), out)
			Expect(a.Bootstrap(prompter, func(u string) error {
				opened = u
				return nil
			})).To(Succeed())

			Expect(opened).To(ContainSubstring("client_id=id"))
			Expect(out.String()).To(ContainSubstring("Stored credentials in " + configPath))

			mgr, err := credentials.NewManager(configPath)
			Expect(err).NotTo(HaveOccurred())
			stored, err := mgr.Load()
			Expect(err).NotTo(HaveOccurred())
			Expect(stored.AccessToken).To(Equal("access"))
			Expect(stored.RefreshToken).To(Equal("refresh"))
		})
	})
})
