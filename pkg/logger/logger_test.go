package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/angeloszaimis/relay-frontend/pkg/logger"
)

var _ = Describe("Logger", func() {
	var buf *bytes.Buffer

	BeforeEach(func() {
		buf = &bytes.Buffer{}
	})

	Describe("New", func() {
		It("should write text records outside prod", func() {
			log := logger.New(buf, "info", "dev", false)
			log.Info("hello")

			Expect(buf.String()).To(ContainSubstring("msg=hello"))
			Expect(buf.String()).To(ContainSubstring("environment=dev"))
		})

		It("should write JSON records in prod", func() {
			log := logger.New(buf, "info", "prod", false)
			log.Info("hello", slog.String("request_id", "abc"))

			var record map[string]any
			Expect(json.Unmarshal(buf.Bytes(), &record)).To(Succeed())
			Expect(record["msg"]).To(Equal("hello"))
			Expect(record["environment"]).To(Equal("prod"))
			Expect(record["request_id"]).To(Equal("abc"))
		})

		It("should include the source when asked", func() {
			log := logger.New(buf, "info", "prod", true)
			log.Info("hello")

			Expect(buf.String()).To(ContainSubstring(`"source"`))
		})

		It("should drop records below the level", func() {
			log := logger.New(buf, "warn", "dev", false)
			log.Info("quiet")
			Expect(buf.Len()).To(BeZero())

			log.Warn("loud")
			Expect(buf.String()).To(ContainSubstring("msg=loud"))
		})
	})

	DescribeTable("ParseLevel",
		func(name string, want slog.Level) {
			Expect(logger.ParseLevel(name)).To(Equal(want))
		},
		Entry("debug", "debug", slog.LevelDebug),
		Entry("info", "info", slog.LevelInfo),
		Entry("warn", "WARN", slog.LevelWarn),
		Entry("error", "error", slog.LevelError),
		Entry("unknown defaults to info", "verbose", slog.LevelInfo),
	)

	It("should respect the debug level", func() {
		log := logger.New(buf, "debug", "dev", false)
		Expect(log.Enabled(context.Background(), slog.LevelDebug)).To(BeTrue())
	})
})
