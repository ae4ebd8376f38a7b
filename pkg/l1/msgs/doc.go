// Package msgs provides the L1 protocol and all message schemas.
//
// L1 protocol is spoken between an L1 controller (a robot, simulated or
// real) and L2 components (joystick, CLI) over packet transports.
// Every packet is a Typed envelope carrying a type ID, a sequence number
// for commands and replies, and the protobuf encoded message.
package msgs
