package config

// CompileGlob exposes compileGlob for tests.
var CompileGlob = compileGlob

// LoadConfigFile exposes the per-file load for tests.
var LoadConfigFile = (*Resolver).load
