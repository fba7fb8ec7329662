package output

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/skylift/schedctl/pkg/schedctl/client"
	"github.com/skylift/schedctl/pkg/schedctl/cluster"
)

func WriteJobTable(w io.Writer, jobs []client.JobSummary) {
	tw := tabwriter.NewWriter(w, 2, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "JOB\tINSTANCES\tSTATE\tTIER\tCREATED")
	for _, j := range jobs {
		created := "-"
		if j.CreatedAt != nil {
			created = formatTime(*j.CreatedAt)
		}
		tier := j.Tier
		if tier == "" {
			tier = "-"
		}
		_, _ = fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\n", j.Key, j.Instances, j.State, tier, created)
	}
	_ = tw.Flush()
}

func WriteJobStatusTable(w io.Writer, status *client.JobStatus) {
	_, _ = fmt.Fprintf(w, "Job %s: %d active, %d pending, %d failed\n",
		status.Key, status.Active, status.Pending, status.Failed)
	if len(status.Tasks) == 0 {
		return
	}
	tw := tabwriter.NewWriter(w, 2, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "INSTANCE\tSTATE\tHOST\tMESSAGE")
	for _, t := range status.Tasks {
		host := t.Host
		if host == "" {
			host = "-"
		}
		_, _ = fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", t.InstanceID, t.State, host, t.Message)
	}
	_ = tw.Flush()
}

func WriteClusterTable(w io.Writer, clusters []cluster.Cluster, current string) {
	tw := tabwriter.NewWriter(w, 2, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "CURRENT\tNAME\tSCHEDULER\tZONE")
	for _, c := range clusters {
		marker := ""
		if c.Name == current {
			marker = "*"
		}
		zone := c.Zone
		if zone == "" {
			zone = "-"
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", marker, c.Name, c.Scheduler, zone)
	}
	_ = tw.Flush()
}

func WriteQuotaTable(w io.Writer, quota *client.Quota) {
	tw := tabwriter.NewWriter(w, 2, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "RESOURCE\tALLOCATED\tCONSUMED")
	_, _ = fmt.Fprintf(tw, "cpu\t%.2f\t%.2f\n", quota.Allocated.CPU, quota.Consumed.CPU)
	_, _ = fmt.Fprintf(tw, "ram_mb\t%d\t%d\n", quota.Allocated.RAMMb, quota.Consumed.RAMMb)
	_, _ = fmt.Fprintf(tw, "disk_mb\t%d\t%d\n", quota.Allocated.DiskMb, quota.Consumed.DiskMb)
	_ = tw.Flush()
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format(time.RFC3339)
}
