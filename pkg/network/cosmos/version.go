// pkg/network/cosmos/version.go
package cosmos

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// nodeInfoResponse represents /cosmos/base/tendermint/v1beta1/node_info.
type nodeInfoResponse struct {
	DefaultNodeInfo struct {
		Network string `json:"network"`
		Version string `json:"version"`
		Moniker string `json:"moniker"`
	} `json:"default_node_info"`
	ApplicationVersion struct {
		Name             string `json:"name"`
		AppName          string `json:"app_name"`
		Version          string `json:"version"`
		CosmosSDKVersion string `json:"cosmos_sdk_version"`
	} `json:"application_version"`
}

// NodeInfo describes the node behind the REST endpoint.
type NodeInfo struct {
	ChainID    string `json:"chainId"`
	Moniker    string `json:"moniker"`
	AppName    string `json:"appName"`
	AppVersion string `json:"appVersion"`
	SDKVersion string `json:"sdkVersion"`
}

// GetNodeInfo queries the node info endpoint.
func (c *ChainClient) GetNodeInfo(ctx context.Context) (*NodeInfo, error) {
	var resp nodeInfoResponse
	if err := c.getJSON(ctx, "/cosmos/base/tendermint/v1beta1/node_info", &resp); err != nil {
		return nil, fmt.Errorf("failed to query node info: %w", err)
	}
	return &NodeInfo{
		ChainID:    resp.DefaultNodeInfo.Network,
		Moniker:    resp.DefaultNodeInfo.Moniker,
		AppName:    resp.ApplicationVersion.AppName,
		AppVersion: resp.ApplicationVersion.Version,
		SDKVersion: resp.ApplicationVersion.CosmosSDKVersion,
	}, nil
}

// CheckChainID verifies the node serves the configured chain.
func (c *ChainClient) CheckChainID(ctx context.Context) (*NodeInfo, error) {
	info, err := c.GetNodeInfo(ctx)
	if err != nil {
		return nil, err
	}
	if info.ChainID != c.cfg.ChainID {
		return info, fmt.Errorf("%w: node serves chain %q, configured %q", ErrInvalidConfig, info.ChainID, c.cfg.ChainID)
	}
	return info, nil
}

// SupportsCancelUnbonding reports whether MsgCancelUnbondingDelegation exists,
// which is the case from SDK v0.46. Unknown versions are assumed to support it.
func (n *NodeInfo) SupportsCancelUnbonding() bool {
	if n.SDKVersion == "" {
		return true
	}
	return versionAtLeast(n.SDKVersion, 0, 46, 0)
}

// parseSDKVersion parses a semantic version string into major, minor, patch components.
// Supports versions with or without 'v' prefix and pre-release suffixes.
func parseSDKVersion(version string) (major, minor, patch int, err error) {
	if version == "" {
		return 0, 0, 0, fmt.Errorf("empty version string")
	}

	version = strings.TrimPrefix(version, "v")

	// Remove pre-release suffix (everything after -)
	if idx := strings.Index(version, "-"); idx != -1 {
		version = version[:idx]
	}

	parts := strings.Split(version, ".")
	if len(parts) < 2 {
		return 0, 0, 0, fmt.Errorf("invalid version format: %s", version)
	}

	major, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid major version: %w", err)
	}
	minor, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid minor version: %w", err)
	}

	if len(parts) >= 3 {
		re := regexp.MustCompile(`^(\d+)`)
		if matches := re.FindStringSubmatch(parts[2]); len(matches) > 1 {
			patch, _ = strconv.Atoi(matches[1])
		}
	}

	return major, minor, patch, nil
}

// versionAtLeast returns true if the given version is at least the specified minimum.
func versionAtLeast(version string, minMajor, minMinor, minPatch int) bool {
	major, minor, patch, err := parseSDKVersion(version)
	if err != nil {
		return false
	}
	if major != minMajor {
		return major > minMajor
	}
	if minor != minMinor {
		return minor > minMinor
	}
	return patch >= minPatch
}
