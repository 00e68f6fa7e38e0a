// Package config provides configuration structures and utilities for osintdata.
// It resolves where the OSINT reference datasets live, loads the optional
// .osintdata YAML file and dotenv file, and defines logging, report and
// history preferences shared by all commands.
//
// Precedence, lowest to highest:
//
//  1. Built-in defaults (NewConfig)
//  2. The .osintdata YAML file (FindConfigFile, LoadConfigFile)
//  3. A dotenv file (LoadEnvFile); variables already set in the process win
//  4. The OSINT_DATASET_DIR environment variable
//  5. Command line flags
package config
