// Package storage defines the gateway contract through which the services
// reach the relational store: the BookGateway and PersonGateway interfaces,
// the sort keys, the sentinel errors, and the dependency-free observability
// interfaces the engine implementations accept.
//
// Implementations live in the engine subpackages (postgresengine,
// mysqlengine). Any relational engine that can generate unique ids, look up
// by equality and search by string prefix can satisfy the contract.
package storage
