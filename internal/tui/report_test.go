package tui

import (
	"bytes"
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/joe/davsync/internal/syncengine"
)

var _ = Describe("WriteSummary", func() {
	It("writes nothing without a result", func() {
		var buf bytes.Buffer
		Expect(WriteSummary(&buf, nil)).To(Succeed())
		Expect(buf.String()).To(BeEmpty())
	})

	It("lists each file and the totals", func() {
		stamp := time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)
		result := &syncengine.SyncResult{
			RunID:    "run-42",
			Duration: 2 * time.Second,
			Outcomes: []syncengine.FileOutcome{
				{Name: "profiles.db", Action: syncengine.ActionPull, Bytes: 512, LocalTime: stamp, RemoteTime: stamp.Add(time.Hour)},
				{Name: "Preferences", Action: syncengine.ActionSkip},
			},
		}

		var buf bytes.Buffer
		Expect(WriteSummary(&buf, result)).To(Succeed())

		out := buf.String()
		Expect(out).To(ContainSubstring("profiles.db"))
		Expect(out).To(ContainSubstring("pulled"))
		Expect(out).To(ContainSubstring("512 B"))
		Expect(out).To(ContainSubstring("2024-05-06 07:08:09"))
		Expect(out).To(ContainSubstring("Preferences"))
		Expect(out).To(ContainSubstring("0 pushed, 1 pulled, 1 up to date"))
		Expect(out).To(ContainSubstring("run run-42"))
	})

	It("shows a dash for a copy that does not exist", func() {
		result := &syncengine.SyncResult{
			Outcomes: []syncengine.FileOutcome{
				{Name: "history.db", Action: syncengine.ActionPush, Bytes: 4, LocalTime: time.Now(), RemoteTime: time.Unix(0, 0)},
			},
		}

		var buf bytes.Buffer
		Expect(WriteSummary(&buf, result)).To(Succeed())
		Expect(buf.String()).NotTo(ContainSubstring("1970"))
		Expect(buf.String()).To(ContainSubstring("-"))
	})
})

var _ = Describe("WriteReport", func() {
	It("lists the files handled before a failure, then the error", func() {
		result := &syncengine.SyncResult{
			RunID: "run-7",
			Outcomes: []syncengine.FileOutcome{
				{Name: "profiles.db", Action: syncengine.ActionPush, Bytes: 10},
			},
		}
		runErr := &syncengine.TransferError{
			File: "history.db",
			Op:   syncengine.OpUpload,
			Path: "/sync/history.db",
			Err:  errors.New("507 Insufficient Storage"),
		}

		var out, errOut bytes.Buffer
		WriteReport(&out, &errOut, result, runErr)

		Expect(out.String()).To(ContainSubstring("profiles.db"))
		Expect(out.String()).To(ContainSubstring("1 pushed"))
		Expect(errOut.String()).To(ContainSubstring("history.db"))
		Expect(errOut.String()).To(ContainSubstring("507 Insufficient Storage"))
	})

	It("prints only the error when nothing ran", func() {
		var out, errOut bytes.Buffer
		WriteReport(&out, &errOut, nil, errors.New("no connection"))

		Expect(out.String()).To(BeEmpty())
		Expect(errOut.String()).To(ContainSubstring("no connection"))
	})
})
