package pipeline

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/tturner/ditgparse/internal/config"
	"github.com/tturner/ditgparse/internal/logging"
	"github.com/tturner/ditgparse/internal/metrics"
	"github.com/tturner/ditgparse/internal/report"
)

// RecvLogName is the combined receiver log expected in each leaf directory.
const RecvLogName = "recv.log"

// RecvLayout handles the combined layout with one recv.log per
// protocol/packet-size leaf. Only the TOTAL RESULTS section is parsed and a
// failing decoder run discards its output.
type RecvLayout struct{}

func (RecvLayout) Name() string           { return config.PipelineRecv }
func (RecvLayout) Columns() []string      { return metrics.RecvColumns }
func (RecvLayout) CheckExit() bool        { return true }
func (RecvLayout) Parser() *report.Parser { return report.RecvParser() }

func (RecvLayout) Discover(root, ipVersion string, log *logging.Logger) ([]Source, error) {
	ipVersion = strings.ToUpper(ipVersion)
	base := filepath.Join(root, ipVersion)
	if !isDir(base) {
		log.Verbose("No %s directory under %s", ipVersion, root)
		return nil, nil
	}

	protocols, err := os.ReadDir(base)
	if err != nil {
		return nil, err
	}

	var sources []Source
	for _, p := range protocols {
		protocolDir := filepath.Join(base, p.Name())
		if !isDir(protocolDir) {
			continue
		}
		sizes, err := os.ReadDir(protocolDir)
		if err != nil {
			log.Error("Cannot read %s: %v", protocolDir, err)
			continue
		}
		for _, s := range sizes {
			recvLog := filepath.Join(protocolDir, s.Name(), RecvLogName)
			if !isFile(recvLog) {
				continue
			}
			sources = append(sources, Source{
				Path:      recvLog,
				IPVersion: ipVersion,
				Rel:       []string{p.Name(), s.Name(), RecvLogName},
			})
		}
	}
	return sources, nil
}

func (RecvLayout) Annotate(src Source, rec metrics.Record, log *logging.Logger) bool {
	if len(src.Rel) != 3 {
		log.Error("Unexpected path structure for: %s", src.Path)
		return false
	}
	rec[metrics.FieldIPVersion] = strings.ToUpper(src.IPVersion)
	rec[metrics.FieldProtocol] = strings.ToUpper(src.Rel[0])
	rec[metrics.FieldPacketSize] = src.Rel[1]
	rec[metrics.FieldLogFile] = RecvLogName
	return true
}

// isDir and isFile follow symlinks.
func isDir(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.IsDir()
}

func isFile(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.Mode().IsRegular()
}
