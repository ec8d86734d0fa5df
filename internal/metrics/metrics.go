package metrics

// Result records and tables produced by the decode pipelines

// Field names shared by parsers, layouts and CSV column lists.
const (
	FieldIPVersion  = "ip_version"
	FieldProtocol   = "protocol"
	FieldPacketSize = "packet_size"
	FieldRunNumber  = "run_number"
	FieldLogFile    = "log_file"

	FieldTotalTime    = "total_time"
	FieldTotalPackets = "total_packets"
	FieldMinDelay     = "min_delay"
	FieldMaxDelay     = "max_delay"
	FieldAvgDelay     = "avg_delay"
	FieldJitter       = "jitter"
	FieldDelayStdDev  = "delay_std_dev"
	FieldTotalBytes   = "total_bytes"
	FieldAvgBitrate   = "avg_bitrate"
	FieldPacketRate   = "packet_rate"
	FieldPacketLoss   = "packet_loss"
	FieldLossBurst    = "loss_burst"
	FieldErrorLines   = "error_lines"
)

// RunColumns is the CSV column order for per-run (run-N.log) tables.
var RunColumns = []string{
	FieldProtocol, FieldPacketSize, FieldRunNumber,
	FieldTotalTime, FieldTotalPackets, FieldAvgDelay,
	FieldJitter, FieldTotalBytes, FieldAvgBitrate,
	FieldPacketRate, FieldPacketLoss,
}

// RecvColumns is the CSV column order for combined recv.log tables.
var RecvColumns = []string{
	FieldIPVersion, FieldProtocol, FieldPacketSize, FieldLogFile,
	FieldTotalTime, FieldTotalPackets, FieldMinDelay, FieldMaxDelay, FieldAvgDelay,
	FieldJitter, FieldDelayStdDev, FieldTotalBytes, FieldAvgBitrate,
	FieldPacketRate, FieldPacketLoss, FieldLossBurst, FieldErrorLines,
}

// Record maps field names to string-encoded values. Metrics the decoder did
// not report are absent rather than empty.
type Record map[string]string

// Table is an ordered set of records sharing one column layout.
type Table struct {
	IPVersion string
	Columns   []string
	Records   []Record
}

// NewTable creates an empty table with the given column layout.
func NewTable(ipVersion string, columns []string) *Table {
	cols := make([]string, len(columns))
	copy(cols, columns)
	return &Table{IPVersion: ipVersion, Columns: cols}
}

// Append adds a record to the table.
func (t *Table) Append(r Record) {
	t.Records = append(t.Records, r)
}

// Len returns the number of records.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Records)
}

// Row projects a record onto the table's columns. Missing fields become
// blank cells; fields outside the column list are dropped.
func (t *Table) Row(r Record) []string {
	row := make([]string, len(t.Columns))
	for i, col := range t.Columns {
		row[i] = r[col]
	}
	return row
}
