package config_test

import (
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/angeloszaimis/relay-frontend/config"
)

var _ = Describe("Config", func() {
	var (
		tempDir string
		origDir string
	)

	BeforeEach(func() {
		var err error
		origDir, err = os.Getwd()
		Expect(err).NotTo(HaveOccurred())

		tempDir, err = os.MkdirTemp("", "config-test-*")
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		Expect(os.Chdir(origDir)).To(Succeed())
		os.RemoveAll(tempDir)
		os.Unsetenv("UPSTREAM_URL")
		os.Unsetenv("SERVER_ADDRESS")
		os.Unsetenv("LOGGING_LEVEL")
	})

	writeConfig := func(content string) string {
		configPath := filepath.Join(tempDir, "config.yaml")
		Expect(os.WriteFile(configPath, []byte(content), 0644)).To(Succeed())
		return configPath
	}

	Describe("Load", func() {
		Context("without a config file", func() {
			BeforeEach(func() {
				Expect(os.Chdir(tempDir)).To(Succeed())
			})

			It("should fall back to the fixed defaults", func() {
				cfg, err := config.Load("")
				Expect(err).NotTo(HaveOccurred())
				Expect(cfg.Server.Address).To(Equal(":3000"))
				Expect(cfg.Server.Environment).To(Equal(config.EnvDev))
				Expect(cfg.Upstream.URL).To(Equal("http://localhost:5000/api/message"))
				Expect(cfg.Backend.Address).To(Equal("0.0.0.0:5000"))
				Expect(cfg.Metrics.Address).To(BeEmpty())
				Expect(cfg.Logging.Level).To(Equal(config.LogLevelInfo))
			})

			It("should leave the upstream call without a timeout", func() {
				cfg, err := config.Load("")
				Expect(err).NotTo(HaveOccurred())
				Expect(cfg.UpstreamTimeout()).To(BeZero())
			})

			It("should pick up environment overrides", func() {
				os.Setenv("UPSTREAM_URL", "http://127.0.0.1:6000/api/message")
				os.Setenv("SERVER_ADDRESS", "127.0.0.1:3100")

				cfg, err := config.Load("")
				Expect(err).NotTo(HaveOccurred())
				Expect(cfg.Upstream.URL).To(Equal("http://127.0.0.1:6000/api/message"))
				Expect(cfg.Server.Address).To(Equal("127.0.0.1:3100"))
			})

			It("should reject an invalid environment override", func() {
				os.Setenv("LOGGING_LEVEL", "verbose")

				cfg, err := config.Load("")
				Expect(err).To(HaveOccurred())
				Expect(cfg).To(BeNil())
			})
		})

		Context("with a config file", func() {
			It("should load the file contents", func() {
				path := writeConfig(`
server:
  address: "localhost:3001"
  environment: "prod"

upstream:
  url: "http://backend.internal:5000/api/message"
  timeout: "3s"

metrics:
  address: ":9090"
  buffer_size: 50

logging:
  level: "debug"
`)
				cfg, err := config.Load(path)
				Expect(err).NotTo(HaveOccurred())
				Expect(cfg.Server.Address).To(Equal("localhost:3001"))
				Expect(cfg.Server.Environment).To(Equal(config.EnvProd))
				Expect(cfg.Upstream.URL).To(Equal("http://backend.internal:5000/api/message"))
				Expect(cfg.UpstreamTimeout()).To(Equal(3 * time.Second))
				Expect(cfg.Metrics.Address).To(Equal(":9090"))
				Expect(cfg.Metrics.BufferSize).To(Equal(50))
				Expect(cfg.Logging.Level).To(Equal(config.LogLevelDebug))
			})

			It("should find config.yaml in the working directory", func() {
				writeConfig(`
server:
  address: ":3002"
`)
				Expect(os.Chdir(tempDir)).To(Succeed())

				cfg, err := config.Load("")
				Expect(err).NotTo(HaveOccurred())
				Expect(cfg.Server.Address).To(Equal(":3002"))
				Expect(cfg.Upstream.URL).To(Equal(config.DefaultUpstreamURL))
			})

			It("should fail when an explicit file is missing", func() {
				cfg, err := config.Load(filepath.Join(tempDir, "missing.yaml"))
				Expect(err).To(HaveOccurred())
				Expect(cfg).To(BeNil())
			})

			It("should reject a non-http upstream", func() {
				path := writeConfig(`
upstream:
  url: "ftp://localhost:5000/api/message"
`)
				_, err := config.Load(path)
				Expect(err).To(HaveOccurred())
				Expect(err.Error()).To(MatchRegexp(`(?i)upstream`))
			})

			It("should reject a negative timeout", func() {
				path := writeConfig(`
upstream:
  timeout: "-1s"
`)
				_, err := config.Load(path)
				Expect(err).To(HaveOccurred())
			})
		})
	})

	Describe("ValidateHostPort", func() {
		DescribeTable("addresses",
			func(addr string, valid bool) {
				err := config.ValidateHostPort(addr)
				if valid {
					Expect(err).NotTo(HaveOccurred())
				} else {
					Expect(err).To(HaveOccurred())
				}
			},
			Entry("port only", ":3000", true),
			Entry("hostname", "localhost:3000", true),
			Entry("ip", "0.0.0.0:5000", true),
			Entry("empty", "", true),
			Entry("missing port", "localhost", false),
			Entry("too many colons", "invalid:host:port", false),
			Entry("empty port", "localhost:", false),
		)
	})
})
