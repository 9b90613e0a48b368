// Package proto is the wire contract of the WaterBot identity service.
//
// identity.proto is the schema. The Go messages carry the protobuf struct
// tags and message names of that schema, so gRPC's default proto codec
// encodes them without generated descriptors.
package proto
