// Package command defines the command envelope, decisions and the
// command-type registry.
//
// A command is an intent submitted by a principal. Deciders turn a command
// plus current state into a Decision: either events to append or rejections
// explaining why nothing happened. Deciders never mutate state.
package command
