package extractor

const arraysSDL = `<SdlFile xmlns:xsd="http://www.w3.org/2001/XMLSchema" ByteAlignment="1" Version="2.0">
<View Name="array_root" CycleID="2">
  <Group Name="simple_float_arrays" Address="90100000" ArrayLen="1" Size="80">
    <Signal Name="ten_floats" Offset="0" ArrayLen="10" Type="float" ByteOrder="little-endian" Size="4"/>
    <Signal Name="ten_more_floats" Offset="28" ArrayLen="10" Type="float" ByteOrder="little-endian" Size="4"/>
  </Group>
  <Group Name="array_of_structs" Address="901103E8" ArrayLen="1" Size="88">
    <SubGroup Name="first_group" Offset="0" ArrayLen="5" Size="12">
      <Signal Name="big_int" Offset="0" ArrayLen="1" Type="uint64" ByteOrder="little-endian" Size="8"/>
      <Signal Name="unsigned_short" Offset="8" ArrayLen="1" Type="ushort" ByteOrder="little-endian" Size="2"/>
      <Signal Name="another_unsigned_short" Offset="A" ArrayLen="1" Type="ushort" ByteOrder="little-endian" Size="2"/>
    </SubGroup>
    <SubGroup Name="second_group" Offset="3C" ArrayLen="7" Size="4">
      <Signal Name="unsigned_char1" Offset="0" ArrayLen="1" Type="uchar" ByteOrder="big-endian" Size="1"/>
      <Signal Name="unsigned_char2" Offset="1" ArrayLen="1" Type="uchar" ByteOrder="big-endian" Size="1"/>
      <Signal Name="unsigned_char3" Offset="2" ArrayLen="1" Type="uchar" ByteOrder="big-endian" Size="1"/>
      <Signal Name="unsigned_char4" Offset="3" ArrayLen="1" Type="uchar" ByteOrder="big-endian" Size="1"/>
    </SubGroup>
  </Group>
  <Group Name="array_of_array" Address="90110440" ArrayLen="1" Size="336">
    <SubGroup Name="array_group" Offset="0" ArrayLen="10" Size="21">
      <Signal Name="unsigned_short_array" Offset="0" ArrayLen="10" Type="ushort" ByteOrder="little-endian" Size="2"/>
      <Signal Name="unsigned_char" Offset="14" ArrayLen="1" Type="uchar" ByteOrder="little-endian" Size="1"/>
    </SubGroup>
  </Group>
</View>
</SdlFile>
`

const brokenTypeSDL = `<SdlFile Version="2.0">
<View Name="Broken" CycleID="5">
  <Group Name="Odd" Address="1000" ArrayLen="1" Size="4">
    <Signal Name="mystery" Offset="0" ArrayLen="1" Type="quaternion" ByteOrder="little-endian" Size="4"/>
    <Signal Name="overflow" Offset="2" ArrayLen="2" Type="ushort" ByteOrder="little-endian" Size="2"/>
  </Group>
</View>
</SdlFile>
`

const vehicleDBC = `VERSION ""

BU_: Engine Gateway

BO_ 171 EngineData: 8 Engine
 SG_ EngSpeed : 0|16@1+ (0.125,0) [0|8031.875] "rpm" Gateway
 SG_ EngTemp : 16|8@1- (1,-40) [-40|215] "degC" Gateway

BO_ 2147484672 GatewayStatus: 4 Gateway
 SG_ Alive : 0|1@1+ (1,0) [0|1] "" Engine
 SG_ Counter : 8|12@0+ (1,0) [0|4095] "" Engine

BO_ 300 EngineLimits: 2 Engine
 SG_ MaxTorque m0 : 0|16@1+ (1,0) [0|65535] "Nm" Gateway

CM_ SG_ 171 EngSpeed "engine speed";
`

const radarFIBEX = `views:
  - name: RadarService
    service_id: 0x39FE
    interface_version: 2
    serialization: {technology: SOMEIP, version: 1}
    groups:
      - name: Objects
        message_id: 0x8001
        size: 8
        signals:
          - {name: count, offset: 0, size: 4, type: uint32, byte_order: big}
          - {name: status, offset: 4, size: 4, type: uint32, byte_order: big}
      - name: Health
        message_id: 0x8002
        size: 1
        signals:
          - {name: ok, offset: 0, size: 1, type: bool}
`
