package nimbus

import "strings"

// DatabaseChoices are the database kinds a cloud can be created with.
// "none" is a pseudo-kind: its presence anywhere in a selection discards
// every other kind.
var DatabaseChoices = []string{"postgresql", "mysql", "mongodb", "redis", "none"}

// Regions where new clouds can be provisioned. The first entry is the
// default offered during interactive creation.
var Regions = []string{"EU", "NA"}

// Server sizes accepted by the platform.
var Sizes = []string{"small", "large"}

// ValidDatabase reports whether kind is a member of DatabaseChoices.
// Matching is case-sensitive.
func ValidDatabase(kind string) bool {
	for _, choice := range DatabaseChoices {
		if kind == choice {
			return true
		}
	}

	return false
}

// ValidRegion reports whether region is available. Callers are expected to
// upcase input before checking.
func ValidRegion(region string) bool {
	for _, r := range Regions {
		if region == r {
			return true
		}
	}

	return false
}

// ValidSize reports whether size is an accepted server size.
func ValidSize(size string) bool {
	for _, s := range Sizes {
		if size == s {
			return true
		}
	}

	return false
}

// CloudState is the server-reported lifecycle state of a cloud.
type CloudState string

const (
	StateRunning            CloudState = "running"
	StateDeploying          CloudState = "deploying"
	StateNoCode             CloudState = "no_code"
	StateDeployFailed       CloudState = "deploy_failed"
	StateNotEnoughResources CloudState = "not_enough_resources"
	StateNoBilling          CloudState = "no_billing"
	StateTurningOff         CloudState = "turning_off"
	StateTurnedOff          CloudState = "turned_off"
)

// Placement selects where a cloud is provisioned. A cloud is placed either
// in a region or in an explicit zone, never both; the zero Placement means
// "not chosen yet".
type Placement struct {
	kind  placementKind
	value string
}

type placementKind int

const (
	placementNone placementKind = iota
	placementRegion
	placementZone
)

// RegionPlacement places a cloud in the given region.
func RegionPlacement(region string) Placement {
	return Placement{kind: placementRegion, value: region}
}

// ZonePlacement places a cloud in the given zone.
func ZonePlacement(zone string) Placement {
	return Placement{kind: placementZone, value: zone}
}

// Region returns the region and true when the placement is region-based.
func (p Placement) Region() (string, bool) {
	return p.value, p.kind == placementRegion
}

// Zone returns the zone and true when the placement is zone-based.
func (p Placement) Zone() (string, bool) {
	return p.value, p.kind == placementZone
}

// IsZero reports whether no placement has been chosen.
func (p Placement) IsZero() bool {
	return p.kind == placementNone
}

// GitInfo describes the currently deployed revision of a cloud.
type GitInfo struct {
	DeployedCommitSHA     string `json:"deployed_commit_sha"     yaml:"deployed_commit_sha"`
	DeployedCommitMessage string `json:"deployed_commit_message" yaml:"deployed_commit_message"`
	DeployedPushAuthor    string `json:"deployed_push_author"    yaml:"deployed_push_author"`
	RepositoryURL         string `json:"repository_url"          yaml:"repository_url"`
}

// OrganizationInfo is the organization summary embedded in cloud attributes.
type OrganizationInfo struct {
	Name           string `json:"name"            yaml:"name"`
	Credit         string `json:"credit"          yaml:"credit"`
	DetailsPresent bool   `json:"details_present" yaml:"details_present"`
}

// Cloud is an immutable snapshot of one deployable instance, as returned by
// the API. The client never caches it across commands.
type Cloud struct {
	CodeName         string           `json:"code_name"         yaml:"code_name"`
	OrganizationName string           `json:"organization_name" yaml:"organization_name"`
	Region           string           `json:"region,omitempty"  yaml:"region,omitempty"`
	Zone             string           `json:"zone,omitempty"    yaml:"zone,omitempty"`
	Databases        []string         `json:"databases"         yaml:"databases"`
	Size             string           `json:"size"              yaml:"size"`
	State            CloudState       `json:"state"             yaml:"state"`
	StateDescription string           `json:"state_description" yaml:"state_description"`
	Maintenance      bool             `json:"maintenance"       yaml:"maintenance"`
	GitInfo          GitInfo          `json:"git_info"          yaml:"git_info"`
	WebServerIPs     []string         `json:"web_server_ip"     yaml:"web_server_ip"`
	Organization     OrganizationInfo `json:"organization"      yaml:"organization"`
}

// CloudCreateRequest is the payload for creating a cloud. Exactly one of
// Region and Zone is set; use NewCloudCreateRequest to enforce that.
type CloudCreateRequest struct {
	CodeName         string   `json:"code_name"`
	Databases        []string `json:"databases"`
	Size             string   `json:"size"`
	OrganizationName string   `json:"organization_name"`
	Region           string   `json:"region,omitempty"`
	Zone             string   `json:"zone,omitempty"`
}

// NewCloudCreateRequest builds a create payload from a chosen placement.
func NewCloudCreateRequest(codeName string, databases []string, size, organization string, placement Placement) *CloudCreateRequest {
	req := &CloudCreateRequest{
		CodeName:         codeName,
		Databases:        databases,
		Size:             size,
		OrganizationName: organization,
	}

	if region, ok := placement.Region(); ok {
		req.Region = region
	}

	if zone, ok := placement.Zone(); ok {
		req.Zone = zone
	}

	return req
}

// Organization is a billing/ownership group that clouds belong to.
type Organization struct {
	Name           string `json:"name"            yaml:"name"`
	Credit         string `json:"credit"          yaml:"credit"`
	DetailsPresent bool   `json:"details_present" yaml:"details_present"`
}

// OrganizationCreateRequest is the payload for creating an organization.
type OrganizationCreateRequest struct {
	Name         string `json:"name"`
	RedeemCode   string `json:"redeem_code,omitempty"`
	ReferralCode string `json:"referral_code,omitempty"`
}

// DeploymentState is the lifecycle state of one asynchronous deployment.
type DeploymentState string

const (
	DeploymentRunning  DeploymentState = "running"
	DeploymentFinished DeploymentState = "finished"
	DeploymentFailed   DeploymentState = "deploy_failed"
)

// Deployment is one asynchronous start/stop/redeploy operation as observed
// via polling. Messages is append-only between observations.
type Deployment struct {
	ID       string          `json:"id"       yaml:"id"`
	State    DeploymentState `json:"state"    yaml:"state"`
	Messages []string        `json:"messages" yaml:"messages"`
	Result   string          `json:"result"   yaml:"result"`
}

// Terminal reports whether the deployment reached a final state.
func (d *Deployment) Terminal() bool {
	return d.State == DeploymentFinished || d.State == DeploymentFailed
}

// Succeeded is only meaningful once Terminal returns true.
func (d *Deployment) Succeeded() bool {
	return d.Result == "success"
}

// Backup is one database backup stored on the platform.
type Backup struct {
	Filename  string `json:"filename"   yaml:"filename"`
	Size      int64  `json:"size"       yaml:"size"`
	HumanSize string `json:"human_size" yaml:"human_size"`
	CodeName  string `json:"code_name"  yaml:"code_name"`
	Kind      string `json:"kind"       yaml:"kind"`
	State     string `json:"state"      yaml:"state"`
}

// User is the authenticated account.
type User struct {
	Email string `json:"email" yaml:"email"`
}

// Collaborator is a user with access to a cloud.
type Collaborator struct {
	Email  string `json:"email"  yaml:"email"`
	Active bool   `json:"active" yaml:"active"`
}

// ServerStatistics are per-virtual-server usage numbers shown by `info`.
type ServerStatistics struct {
	Name   string `json:"name" yaml:"name"`
	Memory struct {
		Kilobyte string `json:"kilobyte" yaml:"kilobyte"`
		Percent  string `json:"percent"  yaml:"percent"`
	} `json:"memory" yaml:"memory"`
	Swap struct {
		Kilobyte string `json:"kilobyte" yaml:"kilobyte"`
		Percent  string `json:"percent"  yaml:"percent"`
	} `json:"swap" yaml:"swap"`
	CPU struct {
		Wait   string `json:"wait"   yaml:"wait"`
		System string `json:"system" yaml:"system"`
		User   string `json:"user"   yaml:"user"`
	} `json:"cpu" yaml:"cpu"`
	Load struct {
		Avg01 string `json:"avg01" yaml:"avg01"`
		Avg05 string `json:"avg05" yaml:"avg05"`
		Avg15 string `json:"avg15" yaml:"avg15"`
	} `json:"load" yaml:"load"`
}

// Tunnel describes an SSH connection to a cloud's virtual server, used by
// the console family of commands.
type Tunnel struct {
	Host    string `json:"host"    yaml:"host"`
	Port    int    `json:"port"    yaml:"port"`
	User    string `json:"user"    yaml:"user"`
	Service string `json:"service" yaml:"service"`
}

// NormalizeDatabases applies the selection rules shared by the interactive
// loop and the --databases flag: tokens may be separated by commas and/or
// whitespace, and "none" anywhere yields an empty selection.
func NormalizeDatabases(tokens []string) []string {
	var kinds []string

	for _, token := range tokens {
		for _, kind := range strings.FieldsFunc(token, func(r rune) bool {
			return r == ',' || r == ' ' || r == '\t'
		}) {
			if kind == "none" {
				return []string{}
			}

			kinds = append(kinds, kind)
		}
	}

	return kinds
}
