package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

type valueKind int

const (
	kindString valueKind = iota
	kindBool
	kindInt
)

// configKey is a setting that may be stored in the config file.
type configKey struct {
	name string
	kind valueKind
}

// configKeys lists the settings read by the subcommands, in display order.
var configKeys = []configKey{
	{"detect.relaxed", kindBool},
	{"detect.constitutives_only", kindBool},
	{"detect.workers", kindInt},
	{"detect.limit", kindInt},
	{"output.format", kindString},
	{"output.source", kindString},
	{"db.path", kindString},
	{"serve.addr", kindString},
}

func lookupConfigKey(name string) (configKey, error) {
	for _, k := range configKeys {
		if k.name == name {
			return k, nil
		}
	}
	names := make([]string, len(configKeys))
	for i, k := range configKeys {
		names[i] = k.name
	}
	return configKey{}, &usageError{fmt.Errorf("unknown config key %q (known keys: %s)", name, strings.Join(names, ", "))}
}

// value returns the effective setting of k from the environment, the config
// file or the defaults.
func (k configKey) value() any {
	switch k.kind {
	case kindBool:
		return viper.GetBool(k.name)
	case kindInt:
		return viper.GetInt(k.name)
	default:
		return viper.GetString(k.name)
	}
}

// parse converts a command-line value to the type of k.
func (k configKey) parse(value string) (any, error) {
	switch k.kind {
	case kindBool:
		switch strings.ToLower(value) {
		case "true", "yes", "on", "1":
			return true, nil
		case "false", "no", "off", "0":
			return false, nil
		}
		return nil, fmt.Errorf("%s expects a boolean, got %q", k.name, value)
	case kindInt:
		n, err := strconv.Atoi(value)
		if err != nil {
			return nil, fmt.Errorf("%s expects an integer, got %q", k.name, value)
		}
		return n, nil
	default:
		return value, nil
	}
}

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage vibe-splice configuration",
		Long: `Show, get, or set configuration values. Config is stored in ~/.vibe-splice.yaml
and every key can be overridden by a VIBE_SPLICE_* environment variable
(detect.workers is VIBE_SPLICE_DETECT_WORKERS).`,
		Example: `  vibe-splice config                            # show effective settings
  vibe-splice config set detect.relaxed true    # always use relaxed mode
  vibe-splice config set db.path ~/splice.duckdb
  vibe-splice config get output.format          # get a value`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := effectiveConfig()
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), out)
			return nil
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := setConfig(args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s in %s\n", args[0], args[1], path)
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "get <key>",
		Short: "Get a configuration value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := lookupConfigKey(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), k.value())
			return nil
		},
	})

	return cmd
}

// effectiveConfig renders every known key with its effective value as YAML.
func effectiveConfig() (string, error) {
	tree := make(map[string]any)
	for _, k := range configKeys {
		section, name, _ := strings.Cut(k.name, ".")
		sub, ok := tree[section].(map[string]any)
		if !ok {
			sub = make(map[string]any)
			tree[section] = sub
		}
		sub[name] = k.value()
	}

	out, err := yaml.Marshal(tree)
	if err != nil {
		return "", fmt.Errorf("marshaling config: %w", err)
	}
	return string(out), nil
}

// setConfig stores a typed value for key in the config file and returns the
// file path.
func setConfig(key, value string) (string, error) {
	k, err := lookupConfigKey(key)
	if err != nil {
		return "", err
	}
	v, err := k.parse(value)
	if err != nil {
		return "", &usageError{err}
	}
	viper.Set(k.name, v)

	path, err := configPath()
	if err != nil {
		return "", err
	}
	if err := viper.WriteConfigAs(path); err != nil {
		return "", fmt.Errorf("writing config: %w", err)
	}
	return path, nil
}
