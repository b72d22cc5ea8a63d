/*
Package sectorfs implements the storage layer of a teaching operating
system in pure Go. It maps a hierarchical file system onto a fixed array
of disk sectors, with a free-sector bitmap, multi-level indexed file
extents and nested fixed-capacity directories.
*/
package sectorfs
