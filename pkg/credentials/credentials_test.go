package credentials_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/imgup/pkg/credentials"
)

var _ = Describe("Manager", func() {
	var (
		tmpDir string
		target string
	)

	BeforeEach(func() {
		tmpDir = GinkgoT().TempDir()
		target = filepath.Join(tmpDir, "client_secrets.toml")
	})

	Describe("NewManager", func() {
		It("uses the override path as the target", func() {
			mgr, err := credentials.NewManager(target)
			Expect(err).NotTo(HaveOccurred())
			Expect(mgr.GetTarget()).To(Equal(target))
		})

		It("prefers .client_secrets in the working directory", func() {
			wd, err := os.Getwd()
			Expect(err).NotTo(HaveOccurred())
			Expect(os.Chdir(tmpDir)).To(Succeed())
			DeferCleanup(func() {
				Expect(os.Chdir(wd)).To(Succeed())
			})

			Expect(os.WriteFile(credentials.LocalFile, []byte("[credentials]\n"), 0o600)).To(Succeed())

			mgr, err := credentials.NewManager("")
			Expect(err).NotTo(HaveOccurred())
			Expect(mgr.GetTarget()).To(Equal(credentials.LocalFile))
		})
	})

	Describe("Load", func() {
		It("returns empty credentials when no file exists", func() {
			mgr, err := credentials.NewManager(target)
			Expect(err).NotTo(HaveOccurred())

			creds, err := mgr.Load()
			Expect(err).NotTo(HaveOccurred())
			Expect(creds).NotTo(BeNil())
			Expect(*creds).To(Equal(credentials.Credentials{}))
		})

		It("loads the credentials section", func() {
			data := `[credentials]
client_id = "id-123"
client_secret = "secret-123"
access_token = "access-123"
refresh_token = "refresh-123"
`
			Expect(os.WriteFile(target, []byte(data), 0o600)).To(Succeed())

			mgr, err := credentials.NewManager(target)
			Expect(err).NotTo(HaveOccurred())

			creds, err := mgr.Load()
			Expect(err).NotTo(HaveOccurred())
			Expect(creds.ClientID).To(Equal("id-123"))
			Expect(creds.ClientSecret).To(Equal("secret-123"))
			Expect(creds.AccessToken).To(Equal("access-123"))
			Expect(creds.RefreshToken).To(Equal("refresh-123"))
		})

		It("returns error for malformed TOML", func() {
			Expect(os.WriteFile(target, []byte("not valid [[["), 0o600)).To(Succeed())

			mgr, err := credentials.NewManager(target)
			Expect(err).NotTo(HaveOccurred())

			creds, err := mgr.Load()
			Expect(err).To(HaveOccurred())
			Expect(creds).To(BeNil())
		})
	})

	Describe("Save", func() {
		It("persists credentials to disk with restricted permissions", func() {
			mgr, err := credentials.NewManager(target)
			Expect(err).NotTo(HaveOccurred())

			Expect(mgr.Save(&credentials.Credentials{ClientID: "id"})).To(Succeed())

			info, err := os.Stat(target)
			Expect(err).NotTo(HaveOccurred())
			Expect(info.Mode().Perm()).To(Equal(os.FileMode(0o600)))

			data, err := os.ReadFile(target)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(data)).To(ContainSubstring("[credentials]"))
			Expect(string(data)).To(ContainSubstring(`client_id = "id"`))
		})

		It("creates missing parent directories", func() {
			nested := filepath.Join(tmpDir, "a", "b", "secrets.toml")
			mgr, err := credentials.NewManager(nested)
			Expect(err).NotTo(HaveOccurred())

			Expect(mgr.Save(&credentials.Credentials{AccessToken: "tok"})).To(Succeed())

			creds, err := mgr.Load()
			Expect(err).NotTo(HaveOccurred())
			Expect(creds.AccessToken).To(Equal("tok"))
		})

		It("round trips every field", func() {
			mgr, err := credentials.NewManager(target)
			Expect(err).NotTo(HaveOccurred())

			input := credentials.Credentials{
				ClientID:     "id",
				ClientSecret: "secret",
				AccessToken:  "access",
				RefreshToken: "refresh",
			}
			Expect(mgr.Save(&input)).To(Succeed())

			got, err := mgr.Load()
			Expect(err).NotTo(HaveOccurred())
			Expect(*got).To(Equal(input))
		})

		It("returns error for nil credentials", func() {
			mgr, err := credentials.NewManager(target)
			Expect(err).NotTo(HaveOccurred())

			Expect(mgr.Save(nil)).To(HaveOccurred())
		})
	})
})

var _ = Describe("Manager with a .client_secrets file", func() {
	var mgr *credentials.Manager

	BeforeEach(func() {
		wd, err := os.Getwd()
		Expect(err).NotTo(HaveOccurred())
		Expect(os.Chdir(GinkgoT().TempDir())).To(Succeed())
		DeferCleanup(func() {
			Expect(os.Chdir(wd)).To(Succeed())
		})

		data := "[credentials]\nclient_id = abc123\nclient_secret = s3cr3t\naccess_token = \nrefresh_token = \n"
		Expect(os.WriteFile(credentials.LocalFile, []byte(data), 0o600)).To(Succeed())

		mgr, err = credentials.NewManager("")
		Expect(err).NotTo(HaveOccurred())
	})

	It("loads unquoted values", func() {
		creds, err := mgr.Load()
		Expect(err).NotTo(HaveOccurred())
		Expect(*creds).To(Equal(credentials.Credentials{
			ClientID:     "abc123",
			ClientSecret: "s3cr3t",
		}))
	})

	It("writes the file back in the same layout", func() {
		creds, err := mgr.Load()
		Expect(err).NotTo(HaveOccurred())
		creds.AccessToken = "access"
		creds.RefreshToken = "refresh"
		Expect(mgr.Save(creds)).To(Succeed())

		data, err := os.ReadFile(credentials.LocalFile)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(data)).To(ContainSubstring("[credentials]"))
		Expect(string(data)).To(MatchRegexp(`access_token\s*=\s*access\n`))
		Expect(string(data)).NotTo(ContainSubstring(`"`))

		got, err := mgr.Load()
		Expect(err).NotTo(HaveOccurred())
		Expect(*got).To(Equal(credentials.Credentials{
			ClientID:     "abc123",
			ClientSecret: "s3cr3t",
			AccessToken:  "access",
			RefreshToken: "refresh",
		}))
	})
})

var _ = Describe("Credentials", func() {
	It("requires id and secret for HasClient", func() {
		Expect((&credentials.Credentials{ClientID: "id"}).HasClient()).To(BeFalse())
		Expect((&credentials.Credentials{ClientID: "id", ClientSecret: "s"}).HasClient()).To(BeTrue())
	})
})
