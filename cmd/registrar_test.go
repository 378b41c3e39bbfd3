package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"firestige.xyz/udex/internal/core/decoder"
	"firestige.xyz/udex/internal/hashmanager"
)

// MockRegistrar is a mock implementation of Registrar
type MockRegistrar struct {
	mock.Mock
}

func (m *MockRegistrar) SetDataSourceInfo(name string, sourceID uint16, instance uint32, formatIdentifier string) {
	m.Called(name, sourceID, instance, formatIdentifier)
}

func (m *MockRegistrar) RegisterDataSources(fileName, format string) error {
	args := m.Called(fileName, format)
	return args.Error(0)
}

func (m *MockRegistrar) GetTopicsAndHashes() map[string]uint64 {
	args := m.Called()
	return args.Get(0).(map[string]uint64)
}

func (m *MockRegistrar) GetNewRegisteredTopics() map[string]hashmanager.TopicInfo {
	args := m.Called()
	return args.Get(0).(map[string]hashmanager.TopicInfo)
}

func (m *MockRegistrar) GetSchema(url string, sourceID uint16) (string, bool) {
	args := m.Called(url, sourceID)
	return args.String(0), args.Bool(1)
}

func (m *MockRegistrar) DecodeTables() *decoder.Tables {
	args := m.Called()
	return args.Get(0).(*decoder.Tables)
}

func (m *MockRegistrar) DataSource() hashmanager.DataSource {
	args := m.Called()
	return args.Get(0).(hashmanager.DataSource)
}

func (m *MockRegistrar) Terminate() {
	m.Called()
}

const vehicleSDL = `<SdlFile Version="2.0">
<View Name="AlgoVehCycle" CycleID="207">
  <Group Name="VehDyn" Address="20350000" ArrayLen="1" Size="160">
    <Signal Name="uiVersionNumber" Offset="0" ArrayLen="1" Type="ulong" ByteOrder="little-endian" Size="4"/>
    <Signal Name="fYawRate" Offset="4" ArrayLen="1" Type="float" ByteOrder="little-endian" Size="4"/>
  </Group>
  <Group Name="VehPar" Address="203500A0" ArrayLen="2" Size="32">
    <Signal Name="fWheelBase" Offset="0" ArrayLen="1" Type="float" ByteOrder="little-endian" Size="4"/>
  </Group>
</View>
</SdlFile>
`

const (
	vehDynHash uint64 = 17840117121602961597
	vehParHash uint64 = 17840081937230930845
)

// newTestRegistrar returns a CoreLib with the built-in defaults.
func newTestRegistrar(t *testing.T) Registrar {
	t.Helper()
	r, err := newRegistrar()
	require.NoError(t, err)
	t.Cleanup(r.Terminate)
	return r
}

func writeFile(t *testing.T, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, content, 0o644))
	return path
}
