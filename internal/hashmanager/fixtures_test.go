package hashmanager

import (
	"encoding/binary"

	"firestige.xyz/udex/internal/core"
	"firestige.xyz/udex/internal/extractor"
)

const (
	vehDynHash uint64 = 17840117121602961597
	vehParHash uint64 = 17840081937230930845
)

const vehicleSDL = `<SdlFile xmlns:xsd="http://www.w3.org/2001/XMLSchema" ByteAlignment="1" Version="2.0">
<View Name="AlgoVehCycle" CycleID="207">
  <Group Name="VehDyn" Address="20350000" ArrayLen="1" Size="160">
    <Signal Name="uiVersionNumber" Offset="0" ArrayLen="1" Type="ulong" ByteOrder="little-endian" Size="4"/>
    <SubGroup Name="sSigHeader" Offset="4" ArrayLen="1" Size="12">
      <Signal Name="uiTimeStamp" Offset="0" ArrayLen="1" Type="ulong" ByteOrder="little-endian" Size="4"/>
      <Signal Name="uiMeasurementCounter" Offset="4" ArrayLen="1" Type="ushort" ByteOrder="little-endian" Size="2"/>
    </SubGroup>
  </Group>
  <Group Name="VehPar" Address="203500A0" ArrayLen="2" Size="32">
    <Signal Name="fWheelBase" Offset="0" ArrayLen="1" Type="float" ByteOrder="little-endian" Size="4"/>
  </Group>
</View>
</SdlFile>
`

const brokenSDL = `<SdlFile Version="2.0">
<View Name="Broken" CycleID="5">
  <Group Name="Odd" Address="1000" ArrayLen="1" Size="4">
    <Signal Name="mystery" Offset="0" ArrayLen="1" Type="quaternion" ByteOrder="little-endian" Size="4"/>
  </Group>
</View>
</SdlFile>
`

const aliasSDL = `<SdlFile Version="2.0">
<View Name="First" CycleID="100"><Group Name="Alias" Address="1000" ArrayLen="1" Size="8"/></View>
<View Name="Second" CycleID="100"><Group Name="Alias" Address="1000" ArrayLen="1" Size="8"/></View>
</SdlFile>
`

const engineDBC = `BU_: Engine
BO_ 171 EngineData: 8 Engine
 SG_ EngSpeed : 0|16@1+ (0.125,0) [0|8031.875] "rpm" Gateway
`

const radarFIBEX = `views:
  - name: RadarService
    service_id: 0x39FE
    interface_version: 2
    serialization: {technology: SOMEIP, version: 1}
    groups:
      - {name: Objects, message_id: 0x8001, size: 8}
      - {name: Health, message_id: 0x8002, size: 1}
`

const chassisARXML = `views:
  - name: Chassis
    groups:
      - name: WheelSpeeds
        message_id: 0x39FE805A
        size: 16
        interface_version: 1
        serialization: {technology: AUTOSAR, version: 0}
`

func register(m *extractor.Memory, src DataSource, format core.DescriptionFormat, data string) error {
	_, err := m.RegisterSourceWithDataDescription(extractor.Description{
		SourceName:       src.Name,
		SourceID:         src.SourceID,
		Instance:         src.Instance,
		FormatIdentifier: src.FormatIdentifier,
		Format:           format,
		Data:             []byte(data),
	})
	return err
}

type staticPorts []string

func (s staticPorts) Name() string                                  { return "ports" }
func (s staticPorts) SupportedFormats() []extractor.ProcessorFormat { return nil }
func (s staticPorts) SupportedPorts() []extractor.ProcessorPort {
	out := make([]extractor.ProcessorPort, len(s))
	for i, name := range s {
		out[i] = extractor.ProcessorPort{Name: name}
	}
	return out
}

// softwarePackage builds an ECU software package with contentLen bytes of
// content behind the 16 byte header.
func softwarePackage(cycle, address uint32, contentLen int) *core.RawPackage {
	data := make([]byte, 16+contentLen)
	binary.LittleEndian.PutUint32(data[0:4], address)
	binary.LittleEndian.PutUint32(data[4:8], uint32(contentLen))
	return &core.RawPackage{
		SourceID:       DefaultSourceID,
		InstanceNumber: DefaultInstanceNumber,
		CycleID:        cycle,
		Size:           uint64(len(data)),
		FormatType:     "mts.mta.sw",
		Data:           data,
	}
}
