package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/rollforward/internal/model"
	"github.com/roach88/rollforward/internal/testutil"
	"github.com/roach88/rollforward/internal/wire"
)

// jsonResponse mirrors CLIResponse with a raw payload for typed decoding.
type jsonResponse struct {
	Status string          `json:"status"`
	Data   json.RawMessage `json:"data"`
	Error  *CLIError       `json:"error"`
}

// execute runs the root command with args and returns stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

// executeJSON runs args in JSON mode against model and decodes the response.
func executeJSON(t *testing.T, modelPath string, args ...string) (jsonResponse, error) {
	t.Helper()
	out, err := execute(t, append([]string{"--format", "json", "--model", modelPath}, args...)...)
	var resp jsonResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp), "output: %s", out)
	return resp, err
}

func readModel(t *testing.T, path string) wire.Snapshot {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	snap, err := wire.Decode(data)
	require.NoError(t, err)
	return snap
}

func writeModel(t *testing.T, path string, snap wire.Snapshot) {
	t.Helper()
	data, err := wire.Encode(snap)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o644))
}

func sampleModel() wire.Snapshot {
	meta := testutil.SampleMetadata()
	return wire.Snapshot{
		ModelMetaData:        &meta,
		ProductsForModelItem: testutil.SampleProducts(),
		ScheduleItem:         testutil.SampleSchedule(),
		UnitYieldItem:        testutil.SampleUnitYields(),
		ProductFormulation:   testutil.SampleFormulation(),
	}
}

func TestRootCommand_Subcommands(t *testing.T) {
	cmd := NewRootCommand()
	names := make(map[string]bool)
	for _, c := range cmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"init", "meta", "products", "schedule", "section", "validate", "save", "load", "list", "run", "output"} {
		assert.True(t, names[want], "missing command %s", want)
	}
}

func TestRootCommand_PersistentFlags(t *testing.T) {
	cmd := NewRootCommand()
	for _, name := range []string{"format", "model", "verbose", "config", "api-url", "db", "metrics-file", "retries", "timeout"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(name), "missing flag %s", name)
	}
}

func TestRootCommand_InvalidFormat(t *testing.T) {
	_, err := execute(t, "--format", "xml", "meta", "show")
	require.Error(t, err)
}

func TestInit_WritesMetadata(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.json")

	resp, err := executeJSON(t, path, "init", "--start", "45000", "--days", "3", "--uid", "march", "--description", "March plan")
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Status)

	snap := readModel(t, path)
	require.NotNil(t, snap.ModelMetaData)
	assert.Equal(t, model.ModelMetaData{StartDate: 45000, RunDays: 3, UID: "march", Description: "March plan"}, *snap.ModelMetaData)
}

func TestInit_RefusesOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.json")
	_, err := executeJSON(t, path, "init", "--start", "1", "--days", "1")
	require.NoError(t, err)

	resp, err := executeJSON(t, path, "init", "--start", "2", "--days", "1")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Equal(t, ErrCodeInvalidArgument, resp.Error.Code)

	_, err = executeJSON(t, path, "init", "--start", "2", "--days", "1", "--force")
	require.NoError(t, err)
	assert.Equal(t, int64(2), readModel(t, path).ModelMetaData.StartDate)
}

func TestMeta_ShowWithoutModel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.json")
	resp, err := executeJSON(t, path, "meta", "show")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Equal(t, ErrCodeMissingMetadata, resp.Error.Code)
}

func TestMeta_Set(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.json")
	_, err := executeJSON(t, path, "init", "--start", "45000", "--days", "3")
	require.NoError(t, err)

	_, err = executeJSON(t, path, "meta", "set", "runDays", "10x")
	require.NoError(t, err)
	assert.Equal(t, int64(10), readModel(t, path).ModelMetaData.RunDays)

	resp, err := executeJSON(t, path, "meta", "set", "colour", "red")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Equal(t, ErrCodeUnknownField, resp.Error.Code)
}

func TestProducts_Edit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.json")
	_, err := executeJSON(t, path, "init", "--start", "45000", "--days", "3")
	require.NoError(t, err)

	_, err = executeJSON(t, path, "products", "add")
	require.NoError(t, err)
	_, err = executeJSON(t, path, "products", "set", "0", "ProductCode", "CRD")
	require.NoError(t, err)
	_, err = executeJSON(t, path, "products", "set", "0", "TankCapacityGals", "1500.5")
	require.NoError(t, err)

	resp, err := executeJSON(t, path, "products", "list")
	require.NoError(t, err)
	var products []model.ProductRecord
	require.NoError(t, json.Unmarshal(resp.Data, &products))
	require.Len(t, products, 1)
	assert.Equal(t, "CRD", products[0].Code)
	assert.Equal(t, 1500.5, products[0].TankCapacity)

	_, err = executeJSON(t, path, "products", "remove", "0")
	require.NoError(t, err)
	assert.Empty(t, readModel(t, path).ProductsForModelItem)
}

func TestProducts_BadIndex(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.json")
	_, err := executeJSON(t, path, "products", "set", "first", "ProductCode", "CRD")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestSchedule_SetCopyShow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.json")
	_, err := executeJSON(t, path, "init", "--start", "45000", "--days", "5")
	require.NoError(t, err)

	_, err = executeJSON(t, path, "schedule", "set", "CDU", "CRD", "45000", "101")
	require.NoError(t, err)
	_, err = executeJSON(t, path, "schedule", "copy", "CDU", "CRD", "45000", "--count", "2")
	require.NoError(t, err)

	assert.Equal(t,
		model.Schedule{"CDU": {"CRD": {"45000": 101, "45001": 101, "45002": 101}}},
		readModel(t, path).ScheduleItem)

	resp, err := executeJSON(t, path, "schedule", "show")
	require.NoError(t, err)
	var view scheduleView
	require.NoError(t, json.Unmarshal(resp.Data, &view))
	assert.Equal(t, []string{"45000", "45001", "45002", "45003", "45004"}, view.Dates)
	require.Len(t, view.Rows, 1)
	assert.Equal(t, "CDU", view.Rows[0].Unit)
}

func TestSchedule_FillAndRemove(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.json")
	_, err := executeJSON(t, path, "init", "--start", "45000", "--days", "3")
	require.NoError(t, err)

	_, err = executeJSON(t, path, "schedule", "fill", "FCC", "VGO", "50", "--from", "45001")
	require.NoError(t, err)
	assert.Equal(t,
		model.Schedule{"FCC": {"VGO": {"45001": 50, "45002": 50}}},
		readModel(t, path).ScheduleItem)

	_, err = executeJSON(t, path, "schedule", "remove", "FCC", "VGO")
	require.NoError(t, err)
	assert.Empty(t, readModel(t, path).ScheduleItem)
}

func TestSchedule_AddEmptyRowIsReportedNotKept(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.json")
	_, err := executeJSON(t, path, "init", "--start", "100", "--days", "3")
	require.NoError(t, err)

	resp, err := executeJSON(t, path, "schedule", "add", "CRUDE", "P1")
	require.NoError(t, err)
	var view scheduleAddView
	require.NoError(t, json.Unmarshal(resp.Data, &view))
	assert.False(t, view.Kept)
	assert.Empty(t, readModel(t, path).ScheduleItem)

	out, err := execute(t, "--model", path, "schedule", "add", "CRUDE", "P1")
	require.NoError(t, err)
	assert.Contains(t, out, "not kept")
}

func TestSchedule_AddWithFill(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.json")
	_, err := executeJSON(t, path, "init", "--start", "100", "--days", "3")
	require.NoError(t, err)

	resp, err := executeJSON(t, path, "schedule", "add", "CRUDE", "P1", "--fill", "50")
	require.NoError(t, err)
	var view scheduleAddView
	require.NoError(t, json.Unmarshal(resp.Data, &view))
	assert.True(t, view.Kept)
	assert.Equal(t,
		model.Schedule{"CRUDE": {"P1": {"100": 50, "101": 50, "102": 50}}},
		readModel(t, path).ScheduleItem)

	resp, err = executeJSON(t, path, "schedule", "show")
	require.NoError(t, err)
	var shown scheduleView
	require.NoError(t, json.Unmarshal(resp.Data, &shown))
	require.Len(t, shown.Rows, 1)
	assert.Equal(t, "P1", shown.Rows[0].Product)
}

func TestSchedule_ShowText(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.json")
	writeModel(t, path, sampleModel())

	out, err := execute(t, "--model", path, "schedule", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "CDU")
	assert.Contains(t, out, "12,000")
}

func TestSection_SetAndShow(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "model.json")
	_, err := executeJSON(t, path, "init", "--start", "45000", "--days", "3")
	require.NoError(t, err)

	receipts := filepath.Join(dir, "receipts.json")
	require.NoError(t, os.WriteFile(receipts, []byte(`{"CRD":{"45000":5000}}`), 0o644))
	_, err = executeJSON(t, path, "section", "set", "receipts", receipts)
	require.NoError(t, err)

	resp, err := executeJSON(t, path, "section", "show", "receipts")
	require.NoError(t, err)
	var got model.ProductDateVolumes
	require.NoError(t, json.Unmarshal(resp.Data, &got))
	assert.Equal(t, model.ProductDateVolumes{"CRD": {"45000": 5000}}, got)
}

func TestSection_UnknownKind(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.json")
	_, err := executeJSON(t, path, "section", "show", "pipelines")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestValidate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.json")
	writeModel(t, path, sampleModel())

	resp, err := executeJSON(t, path, "validate")
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Status)

	empty := filepath.Join(t.TempDir(), "empty.json")
	resp, err = executeJSON(t, empty, "validate")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Equal(t, ErrCodeMissingMetadata, resp.Error.Code)
}

func TestSaveLoadList_LocalRepository(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "model.json")
	db := filepath.Join(dir, "models.db")
	writeModel(t, path, sampleModel())

	resp, err := executeJSON(t, path, "--db", db, "save", "--id", "plan-a")
	require.NoError(t, err)
	var saved map[string]string
	require.NoError(t, json.Unmarshal(resp.Data, &saved))
	assert.Equal(t, "plan-a", saved["id"])

	_, err = executeJSON(t, path, "init", "--force", "--start", "1", "--days", "1", "--uid", "other")
	require.NoError(t, err)

	_, err = executeJSON(t, path, "--db", db, "load", "plan-a")
	require.NoError(t, err)
	loaded := readModel(t, path)
	assert.Equal(t, "sample", loaded.ModelMetaData.UID)
	assert.Equal(t, testutil.SampleSchedule(), loaded.ScheduleItem)

	resp, err = executeJSON(t, path, "--db", db, "list")
	require.NoError(t, err)
	var models []map[string]any
	require.NoError(t, json.Unmarshal(resp.Data, &models))
	require.Len(t, models, 1)
	assert.Equal(t, "plan-a", models[0]["id"])
}

func TestLoad_UnknownID(t *testing.T) {
	dir := t.TempDir()
	resp, err := executeJSON(t, filepath.Join(dir, "model.json"), "--db", filepath.Join(dir, "models.db"), "load", "nope")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Equal(t, ErrCodeNotFound, resp.Error.Code)
}

func TestSave_MissingMetadata(t *testing.T) {
	dir := t.TempDir()
	resp, err := executeJSON(t, filepath.Join(dir, "model.json"), "--db", filepath.Join(dir, "models.db"), "save")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Equal(t, ErrCodeMissingMetadata, resp.Error.Code)
}

func TestSave_RefusesOutOfRangeDates(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "model.json")
	db := filepath.Join(dir, "models.db")
	snap := sampleModel()
	snap.ScheduleItem["CDU"]["CRD"]["45010"] = 5
	writeModel(t, path, snap)

	resp, err := executeJSON(t, path, "--db", db, "save", "--id", "plan-a")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Equal(t, ErrCodeInvalidModel, resp.Error.Code)

	resp, err = executeJSON(t, path, "--db", db, "list")
	require.NoError(t, err)
	var models []map[string]any
	require.NoError(t, json.Unmarshal(resp.Data, &models))
	assert.Empty(t, models)
}

func TestList_RequiresDB(t *testing.T) {
	resp, err := executeJSON(t, filepath.Join(t.TempDir(), "model.json"), "list")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Equal(t, ErrCodeUnsupported, resp.Error.Code)
}

// runService answers Run with a fixed result.
type runService struct {
	result model.Result
	got    wire.Snapshot
}

func (s *runService) Load(context.Context, string) (wire.Snapshot, error) {
	return wire.Snapshot{}, nil
}

func (s *runService) Save(_ context.Context, id string, _ wire.Snapshot) (string, error) {
	return id, nil
}

func (s *runService) Run(_ context.Context, snap wire.Snapshot) (wire.Snapshot, error) {
	s.got = snap
	snap.Result = s.result
	return snap, nil
}

func executeSub(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRun_RendersAndWritesResult(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "model.json")
	outPath := filepath.Join(dir, "result.json")
	writeModel(t, path, sampleModel())

	svc := &runService{result: testutil.SampleResult()}
	opts := &RootOptions{Format: "text", Model: path, Service: svc}

	out, err := executeSub(t, NewRunCommand(opts), "--out", outPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Model Results")
	assert.Contains(t, out, "Model ID: sample")
	assert.Contains(t, out, "Product: NAP")
	assert.Contains(t, out, "1,234.5")

	require.NotNil(t, svc.got.ModelMetaData)
	assert.False(t, svc.got.HasResult())

	written := readModel(t, outPath)
	assert.Equal(t, testutil.SampleResult(), written.Result)

	out, err = executeSub(t, NewOutputCommand(opts), outPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Product: NAP")
}

func TestRun_NoOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.json")
	writeModel(t, path, sampleModel())

	opts := &RootOptions{Format: "json", Model: path, Service: &runService{}}
	out, err := executeSub(t, NewRunCommand(opts))
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var resp jsonResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, ErrCodeNoOutput, resp.Error.Code)
}

func TestOutput_NoResultInFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.json")
	writeModel(t, path, sampleModel())

	resp, err := executeJSON(t, path, "output", path)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Equal(t, ErrCodeNoOutput, resp.Error.Code)
}

func TestOutput_AcceptsOutputKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "result.json")
	doc := `{"ModelMetaData":{"startDate":45000,"runDays":1,"uid":"legacy","id_description":""},` +
		`"Output":{"DSL":{"45000":[{"OpenInventory":1,"Receipts":0,"ProductionIn":0,"ProductionOut":0,` +
		`"OpenOrders":0,"DemandForecast":0,"BlendRequirements":0,"EndingInventory":1}]}}}`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	out, err := execute(t, "output", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Model ID: legacy")
	assert.Contains(t, out, "Product: DSL")
}
